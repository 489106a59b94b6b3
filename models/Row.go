package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Row 一条申请记录，字段为 nil 表示请求中没有该字段
// 只由 RowFromMap 构造，不直接做 JSON 编解码
type Row struct {
	School  *string
	Program *string
	Status  *string
	PS      *Link
	SoP     *Link
	Email   *Link
}

// Link 既可以是字符串，也可以是 {displayText, url} 对象
type Link struct {
	Text        string
	DisplayText string
	URL         string
	Object      bool
}

// Href 字符串形式直接作为链接
func (l *Link) Href() string {
	if l.Object {
		return l.URL
	}
	return l.Text
}

func (r *Row) SchoolName() string {
	if r.School == nil {
		return ""
	}
	return *r.School
}

// RowFromMap 从解码后的 JSON 对象构造 Row，值为 null 的字段视为存在但为空
func RowFromMap(m map[string]any) (Row, error) {
	var (
		row Row
		err error
	)
	if row.School, err = stringField(m, "school"); err != nil {
		return Row{}, err
	}
	if row.Program, err = stringField(m, "program"); err != nil {
		return Row{}, err
	}
	if row.Status, err = stringField(m, "status"); err != nil {
		return Row{}, err
	}
	if row.PS, err = linkField(m, "ps"); err != nil {
		return Row{}, err
	}
	if row.SoP, err = linkField(m, "sop"); err != nil {
		return Row{}, err
	}
	if row.Email, err = linkField(m, "email"); err != nil {
		return Row{}, err
	}
	return row, nil
}

func stringField(m map[string]any, key string) (*string, error) {
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	switch val := v.(type) {
	case nil:
		s := ""
		return &s, nil
	case string:
		return &val, nil
	default:
		return nil, fmt.Errorf("%w: %q must be a string", ErrInvalidField, key)
	}
}

func linkField(m map[string]any, key string) (*Link, error) {
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	switch val := v.(type) {
	case nil:
		return &Link{}, nil
	case string:
		return &Link{Text: val}, nil
	case map[string]any:
		link := &Link{Object: true}
		if s, ok := val["displayText"].(string); ok {
			link.DisplayText = s
		}
		switch u := val["url"].(type) {
		case string:
			link.URL = u
		case nil:
		default:
			return nil, fmt.Errorf("%w: %q url must be a string", ErrInvalidField, key)
		}
		return link, nil
	default:
		return nil, fmt.Errorf("%w: %q must be a string or an object", ErrInvalidField, key)
	}
}

// truthy 与 JSON 值的真假判断一致
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	case float64:
		return val != 0
	default:
		return true
	}
}
