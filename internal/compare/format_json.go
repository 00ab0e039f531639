package compare

import (
	"encoding/json"
	"fmt"
	"sort"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool
}

// jsonComparison adds a net position ranking to the comparison set
type jsonComparison struct {
	*ComparisonSet
	Ranking []string `json:"ranking"`
}

// Format renders the set with every scenario, base included, ranked by final net position
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	if compSet == nil || compSet.BaseResult == nil {
		return "", fmt.Errorf("comparison set has no base result")
	}

	doc := jsonComparison{ComparisonSet: compSet, Ranking: rankByNetPosition(compSet)}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal comparison: %w", err)
	}
	return string(data), nil
}

func rankByNetPosition(compSet *ComparisonSet) []string {
	all := append([]ComparisonResult{*compSet.BaseResult}, compSet.AlternativeResults...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].NetPositionAtEnd.GreaterThan(all[j].NetPositionAtEnd)
	})
	names := make([]string, len(all))
	for i := range all {
		names[i] = all[i].ScenarioName
	}
	return names
}
