package models

import "time"

// SyncLog 每行同步结果在 MySQL 中的记录
type SyncLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BatchID   string    `gorm:"column:batch_id;type:varchar(36);index" json:"batchId"`
	School    string    `gorm:"column:school;type:varchar(255);index" json:"school"`
	Action    string    `gorm:"column:action;type:varchar(16)" json:"action"`
	Success   bool      `gorm:"column:success" json:"success"`
	PageID    string    `gorm:"column:page_id;type:varchar(64)" json:"pageId,omitempty"`
	Error     string    `gorm:"column:error;type:text" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

// 指定表名
func (SyncLog) TableName() string {
	return "sync_logs"
}

func NewSyncLogs(batch *SyncBatch) []SyncLog {
	logs := make([]SyncLog, 0, len(batch.Results))
	for _, r := range batch.Results {
		entry := SyncLog{
			BatchID:   batch.ID,
			School:    r.School,
			Action:    r.Action,
			Success:   r.Success,
			Error:     r.Error,
			CreatedAt: batch.FinishedAt,
		}
		if r.Result != nil {
			entry.PageID = r.Result.ID
		}
		logs = append(logs, entry)
	}
	return logs
}
