package models

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

const (
	MsgExpectedArray = "Expected an array of data in the body request."
	MsgInvalidRows   = `Invalid data format. Each row must contain "school" and "program" fields.`
)

var (
	ErrBadRequest   = errors.New(MsgExpectedArray)
	ErrInvalidField = errors.New("invalid field")
)

// InvalidRowsError 缺少 school 或 program 的行，按原样返回给调用方
type InvalidRowsError struct {
	Rows []any
}

func (e *InvalidRowsError) Error() string {
	return MsgInvalidRows
}

// DecodeBody 数组原样返回，单个对象包装成一个元素的数组
func DecodeBody(body []byte) ([]any, error) {
	var data any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, ErrBadRequest
	}
	// 一个请求体只能有一个 JSON 值
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, ErrBadRequest
	}
	switch v := data.(type) {
	case []any:
		return v, nil
	case map[string]any:
		return []any{v}, nil
	default:
		return nil, ErrBadRequest
	}
}

// ValidateRows 检查每行的必填字段，全部合法时转换为 Row
func ValidateRows(items []any) ([]Row, error) {
	var invalid []any
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok || !truthy(m["school"]) || !truthy(m["program"]) {
			invalid = append(invalid, item)
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidRowsError{Rows: invalid}
	}

	rows := make([]Row, 0, len(items))
	for i, item := range items {
		row, err := RowFromMap(item.(map[string]any))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func NormalizeRows(body []byte) ([]Row, error) {
	items, err := DecodeBody(body)
	if err != nil {
		return nil, err
	}
	return ValidateRows(items)
}
