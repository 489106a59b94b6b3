package models

import "notionsync/notion"

// Notion 数据库中的属性名
const (
	PropSchool  = "School"
	PropProgram = "Program"
	PropStatus  = "Status"
	PropPS      = "PS"
	PropSoP     = "SoP"
	PropEmail   = "Email"
)

// Properties 把 Row 转换为 Notion 属性，只输出请求中存在的字段。
// 创建和更新使用同一份结果，缺失的字段不会被置空。
func (r *Row) Properties() notion.Properties {
	props := notion.Properties{}
	if r.Program != nil {
		props[PropProgram] = notion.RichTextValue(textRuns(*r.Program)...)
	}
	if r.Email != nil {
		props[PropEmail] = emailValue(r.Email)
	}
	if r.PS != nil {
		props[PropPS] = notion.URLValue(optional(r.PS.Href()))
	}
	if r.SoP != nil {
		props[PropSoP] = notion.URLValue(optional(r.SoP.Href()))
	}
	if r.Status != nil {
		var option *notion.SelectOption
		if *r.Status != "" {
			option = &notion.SelectOption{Name: *r.Status}
		}
		props[PropStatus] = notion.SelectValue(option)
	}
	if r.School != nil {
		props[PropSchool] = notion.TitleValue(textRuns(*r.School)...)
	}
	return props
}

func textRuns(content string) []notion.RichText {
	if content == "" {
		return nil
	}
	return []notion.RichText{notion.PlainTextRun(content)}
}

func emailValue(l *Link) notion.PropertyValue {
	if !l.Object {
		return notion.RichTextValue(notion.PlainTextRun(l.Text))
	}
	run := notion.PlainTextRun(l.DisplayText)
	if l.URL != "" {
		run.Text.Link = &notion.Link{URL: l.URL}
	}
	return notion.RichTextValue(run)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
