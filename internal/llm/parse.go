package llm

import (
	"encoding/json"

	"github.com/usharma123/ShellHacks2025/pkg/models"
)

// Parse converts raw completion text into a StructuredResult. It is a
// total function: any text that is not a JSON object comes back wrapped
// as {"analysis": raw}, so callers always receive a mapping.
func Parse(raw string) models.StructuredResult {
	var payload models.StructuredResult
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || payload == nil {
		return models.StructuredResult{"analysis": raw}
	}
	return payload
}
