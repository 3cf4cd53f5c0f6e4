package battle

import "encoding/json"

// Encode serializes a snapshot for save/resume and test fixtures. The
// counterpart Decode restores it with full fidelity.
func Encode(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// Decode restores a snapshot produced by Encode.
func Decode(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
