package persistence

import "encoding/json"

// encodeIDList serializes a list of task IDs for storage in a single
// column. An empty list encodes to nil so the column stays NULL.
func encodeIDList(ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return json.Marshal(ids)
}

// decodeIDList is the inverse of encodeIDList.
func decodeIDList(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
