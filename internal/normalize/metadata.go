package normalize

import "encoding/json"

// StudentInfo identifies the holder of a student ID token.
type StudentInfo struct {
	Name       string `json:"name"`
	School     string `json:"school"`
	StudentID  string `json:"studentId"`
	Department string `json:"department,omitempty"`
	IssueDate  string `json:"issueDate,omitempty"`
}

// StudentMetadata is the JSON envelope stored in a student ID token's URI.
type StudentMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	StudentInfo StudentInfo `json:"studentInfo"`
}

// DecodeStudentMetadata reads a student ID envelope from a hex URI.
func DecodeStudentMetadata(uri string) (*StudentMetadata, bool) {
	text, err := DecodeHex(uri)
	if err != nil {
		return nil, false
	}
	var m StudentMetadata
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, false
	}
	return &m, true
}
