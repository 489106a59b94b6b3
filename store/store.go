// Package store 保存同步历史，MySQL 保存每行记录，Redis 保存最近的批次
package store

import "errors"

var ErrNotFound = errors.New("not found")
