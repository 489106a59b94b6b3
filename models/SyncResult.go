package models

import (
	"time"

	"notionsync/notion"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// SyncResult 单行的同步结果
type SyncResult struct {
	Success bool         `json:"success"`
	School  string       `json:"school"`
	Action  string       `json:"action"`
	Result  *notion.Page `json:"result,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// SyncBatch 一次请求的全部结果
type SyncBatch struct {
	ID         string       `json:"id"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Results    []SyncResult `json:"results"`
}
