package models

// CodeGroup is a group of common codes, e.g. "CountryCode".
type CodeGroup struct {
	GroupID     string `json:"groupId"`
	GroupName   string `json:"groupName"`
	Description string `json:"description"`
	UseYn       bool   `json:"useYn"`
}

// Code is a single common code within a group.
type Code struct {
	CodeID      string `json:"codeId"`
	GroupID     string `json:"groupId"`
	CodeName    string `json:"codeName"`
	Description string `json:"description"`
	UseYn       bool   `json:"useYn"`
}
