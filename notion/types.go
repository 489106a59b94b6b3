package notion

import (
	"fmt"

	"github.com/goccy/go-json"
)

// 属性类型
const (
	TypeTitle    = "title"
	TypeRichText = "rich_text"
	TypeURL      = "url"
	TypeSelect   = "select"
)

// Page 数据库中的一行
type Page struct {
	Object     string                   `json:"object"`
	ID         string                   `json:"id"`
	URL        string                   `json:"url,omitempty"`
	Archived   bool                     `json:"archived"`
	Properties map[string]PropertyValue `json:"properties,omitempty"`
}

type Link struct {
	URL string `json:"url"`
}

type Text struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

type RichText struct {
	Type      string `json:"type,omitempty"`
	Text      *Text  `json:"text,omitempty"`
	PlainText string `json:"plain_text,omitempty"`
	Href      string `json:"href,omitempty"`
}

type SelectOption struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// PropertyValue 页面属性值，Type 决定哪个字段有效
type PropertyValue struct {
	ID       string        `json:"id,omitempty"`
	Type     string        `json:"type"`
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	URL      *string       `json:"url,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
}

// Properties 属性名 -> 属性值
type Properties map[string]PropertyValue

// writeProperties 请求体中的属性，只输出 Type 对应的字段，空列表输出 []，空值输出 null
type writeProperties Properties

func (w writeProperties) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(w))
	for name, p := range w {
		payload, err := p.payload()
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		out[name] = payload
	}
	return json.Marshal(out)
}

func (p PropertyValue) payload() (map[string]any, error) {
	switch p.Type {
	case TypeTitle:
		return map[string]any{TypeTitle: nonNil(p.Title)}, nil
	case TypeRichText:
		return map[string]any{TypeRichText: nonNil(p.RichText)}, nil
	case TypeURL:
		return map[string]any{TypeURL: p.URL}, nil
	case TypeSelect:
		return map[string]any{TypeSelect: p.Select}, nil
	default:
		return nil, fmt.Errorf("notion: unsupported property type %q", p.Type)
	}
}

// EncodeProperties 生成发送给 Notion 的属性 JSON
func EncodeProperties(props Properties) ([]byte, error) {
	return json.Marshal(writeProperties(props))
}

func nonNil(runs []RichText) []RichText {
	if runs == nil {
		return []RichText{}
	}
	return runs
}

// PlainTextRun 构造一段纯文本
func PlainTextRun(content string) RichText {
	return RichText{Type: "text", Text: &Text{Content: content}}
}

func TitleValue(runs ...RichText) PropertyValue {
	return PropertyValue{Type: TypeTitle, Title: runs}
}

func RichTextValue(runs ...RichText) PropertyValue {
	return PropertyValue{Type: TypeRichText, RichText: runs}
}

func URLValue(url *string) PropertyValue {
	return PropertyValue{Type: TypeURL, URL: url}
}

func SelectValue(option *SelectOption) PropertyValue {
	return PropertyValue{Type: TypeSelect, Select: option}
}

// FirstTitleText 返回标题属性第一段文本的内容
func (p PropertyValue) FirstTitleText() (string, bool) {
	if len(p.Title) == 0 {
		return "", false
	}
	first := p.Title[0]
	if first.Text != nil && first.Text.Content != "" {
		return first.Text.Content, true
	}
	if first.PlainText != "" {
		return first.PlainText, true
	}
	return "", false
}

// APIError Notion 返回的错误体
type APIError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %d %s: %s", e.Status, e.Code, e.Message)
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type queryResponse struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

type databaseParent struct {
	DatabaseID string `json:"database_id"`
}

type createPageRequest struct {
	Parent     databaseParent  `json:"parent"`
	Properties writeProperties `json:"properties"`
}

type updatePageRequest struct {
	Properties writeProperties `json:"properties"`
}
