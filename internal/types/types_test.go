package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialContextValidate(t *testing.T) {
	complete := InitialContext{
		CustomerName:         "Acme",
		Executives:           "CEO",
		LineOfBusiness:       "Retail",
		AreasOfInterest:      "Forecasting",
		CustomerExpectations: "Pilots",
	}
	assert.NoError(t, complete.Validate())

	missing := complete
	missing.Executives = "   "
	missing.AreasOfInterest = ""
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executives")
	assert.Contains(t, err.Error(), "areas of interest")
	assert.NotContains(t, err.Error(), "customer name")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "gathering-info", PhaseGatheringInfo.String())
	assert.Equal(t, "analyzing", PhaseAnalyzing.String())
	assert.Equal(t, "researching", PhaseResearching.String())
	assert.Equal(t, "refining", PhaseRefining.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}

func TestChallengeCardJSONKeys(t *testing.T) {
	in := []byte(`{
		"title": "T",
		"relevance": "R",
		"potentialImpact": "P",
		"successCriteria": "S",
		"aiSolutionOpportunities": ["one"],
		"supportingSources": [{"title": "src", "uri": "https://example.com"}]
	}`)

	var card ChallengeCardData
	require.NoError(t, json.Unmarshal(in, &card))
	assert.Equal(t, "T", card.Title)
	assert.Equal(t, "P", card.PotentialImpact)
	assert.Equal(t, []string{"one"}, card.AISolutionOpportunities)
	require.Len(t, card.SupportingSources, 1)
	assert.Equal(t, "https://example.com", card.SupportingSources[0].URI)
}
