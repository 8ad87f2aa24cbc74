package postgres

import "encoding/json"

// defaultLimit and maxLimit guard LIMIT clauses; the HTTP layer applies the
// administrator-configured cap before filters reach the repositories.
const (
	defaultLimit = 50
	maxLimit     = 200
)

func normalizeLimitOffset(limit, offset int) (int, int) {
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func unmarshalValues(data []byte) map[string]any {
	if len(data) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}
