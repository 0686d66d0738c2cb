package node

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fencedJSONResponse = "Here is your photoshoot plan:\n\n```json\n{\n  \"baseOutfit\": \"cream linen blazer\",\n  \"poses\": [{\"title\": \"Window light\", \"prompt\": \"ssx woman by the window\"}]\n}\n```\n\nLet me know if you want changes!"

const bareFenceResponse = "Sure thing.\n```\n{\"baseOutfit\": \"black slip dress\", \"poses\": [{\"title\": \"Rooftop\", \"prompt\": \"ssx woman on a rooftop\"}]}\n```"

const rawProseResponse = `I extracted the outfit and location first. {"baseOutfit": "denim jacket {vintage}", "note": "quote \" and brace } inside", "poses": [{"title": "Street", "prompt": "ssx woman crossing the street"}]} Hope this helps.`

func decodePoses(t *testing.T, s string) []map[string]any {
	t.Helper()
	var v struct {
		Poses []map[string]any `json:"poses"`
	}
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v.Poses
}

func TestExtractJSONFromLLMResponses(t *testing.T) {
	cases := []struct {
		name      string
		response  string
		wantTitle string
	}{
		{"fenced json block", fencedJSONResponse, "Window light"},
		{"bare fenced block", bareFenceResponse, "Rooftop"},
		{"raw json in prose", rawProseResponse, "Street"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := ExtractJSON(tc.response)
			require.True(t, ok)
			poses := decodePoses(t, out)
			require.Len(t, poses, 1)
			assert.Equal(t, tc.wantTitle, poses[0]["title"])
		})
	}
}

func TestExtractorOrderPrefersJSONFence(t *testing.T) {
	text := "```\n{\"which\": \"bare\"}\n```\n```json\n{\"which\": \"json\"}\n```"
	out, ok := ExtractJSON(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"which": "json"}`, out)
}

func TestFencedBlockSkipsNonJSONBlocks(t *testing.T) {
	text := "```python\nprint('hi')\n```\nand then\n```javascript\n{\"a\": 1}\n```"
	out, ok := FencedBlock(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"a": 1}`, out)
}

func TestBalancedObjectIgnoresBracesInStrings(t *testing.T) {
	out, ok := BalancedObject(`prefix {"k": "a } b", "n": {"x": "q\"}"}} suffix }`)
	require.True(t, ok)
	assert.JSONEq(t, `{"k": "a } b", "n": {"x": "q\"}"}}`, out)
}

func TestExtractJSONNotFound(t *testing.T) {
	_, ok := ExtractJSON("I cannot help with that request.")
	assert.False(t, ok)

	_, ok = ExtractJSON("unbalanced { \"poses\": [")
	assert.False(t, ok)

	assert.Equal(t, "no json here", ExtractJSONObject("  no json here  "))
}

func TestCustomExtractorChain(t *testing.T) {
	always := func(string) (string, bool) { return `{"custom": true}`, true }
	out, ok := ExtractJSON(fencedJSONResponse, always)
	require.True(t, ok)
	assert.Equal(t, `{"custom": true}`, out)
}
