package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"notionsync/logger"
	"notionsync/notion"
)

var ErrMappingUnavailable = errors.New("could not load existing records from Notion")

// NotionAPI 同步用到的 Notion 接口
type NotionAPI interface {
	QueryDatabase(ctx context.Context, databaseID string) ([]notion.Page, error)
	CreatePage(ctx context.Context, databaseID string, props notion.Properties) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, props notion.Properties) (*notion.Page, error)
}

// Recorder 保存同步结果，失败只记录日志
type Recorder interface {
	Record(ctx context.Context, batch *SyncBatch) error
}

type Synchronizer struct {
	client     NotionAPI
	databaseID string
	recorders  []Recorder
	log        logger.Logger
	now        func() time.Time
}

func NewSynchronizer(client NotionAPI, databaseID string, log logger.Logger, recorders ...Recorder) *Synchronizer {
	return &Synchronizer{
		client:     client,
		databaseID: databaseID,
		recorders:  recorders,
		log:        logger.OrDefault(log),
		now:        time.Now,
	}
}

// BuildMapping 查询整个数据库，建立 school -> page ID 的映射。
// 标题为空的记录直接跳过，重复的学校名以最后一条为准。
func (s *Synchronizer) BuildMapping(ctx context.Context) (map[string]string, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID)
	if err != nil {
		return nil, err
	}
	mapping := make(map[string]string, len(pages))
	for _, page := range pages {
		prop, ok := page.Properties[PropSchool]
		if !ok {
			s.log.Debug("record without school property skipped", "page_id", page.ID)
			continue
		}
		name, ok := prop.FirstTitleText()
		if !ok {
			s.log.Debug("record with empty school title skipped", "page_id", page.ID)
			continue
		}
		mapping[name] = page.ID
	}
	return mapping, nil
}

// Sync 逐行创建或更新，单行失败不会中断整个批次
func (s *Synchronizer) Sync(ctx context.Context, rows []Row) (*SyncBatch, error) {
	batch := &SyncBatch{
		ID:        uuid.NewString(),
		StartedAt: s.now(),
		Results:   make([]SyncResult, 0, len(rows)),
	}

	log := s.log.With("batch_id", batch.ID)

	mapping, err := s.BuildMapping(ctx)
	if err != nil {
		log.Error("failed to build school mapping", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrMappingUnavailable, err)
	}

	for i := range rows {
		result := s.syncRow(ctx, mapping, &rows[i])
		if result.Success {
			batch.Succeeded++
		} else {
			batch.Failed++
			log.Warn("row sync failed", "school", result.School, "action", result.Action, "error", result.Error)
		}
		batch.Results = append(batch.Results, result)
	}
	batch.FinishedAt = s.now()

	log.Info("sync finished",
		"succeeded", batch.Succeeded,
		"failed", batch.Failed,
		"duration", batch.FinishedAt.Sub(batch.StartedAt),
	)

	for _, rec := range s.recorders {
		if err := rec.Record(ctx, batch); err != nil {
			log.Error("failed to record sync batch", "error", err)
		}
	}
	return batch, nil
}

func (s *Synchronizer) syncRow(ctx context.Context, mapping map[string]string, row *Row) SyncResult {
	school := row.SchoolName()
	props := row.Properties()

	var (
		page   *notion.Page
		action string
		err    error
	)
	if pageID, ok := mapping[school]; ok {
		action = ActionUpdated
		page, err = s.client.UpdatePage(ctx, pageID, props)
	} else {
		action = ActionCreated
		page, err = s.client.CreatePage(ctx, s.databaseID, props)
	}
	if err != nil {
		return SyncResult{Success: false, School: school, Action: action, Error: err.Error()}
	}
	return SyncResult{Success: true, School: school, Action: action, Result: page}
}
