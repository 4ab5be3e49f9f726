package service

import "encoding/json"

// Redis cache values are stored as JSON strings.

func marshalCached(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

func unmarshalCached(payload string, v interface{}) error {
	return json.Unmarshal([]byte(payload), v)
}
