// Package notion 封装对Notion REST API的访问
// 页面与数据库对象保持原始JSON结构，便于前端完整展示
package notion

// 默认标题，对象缺少标题属性时使用
const UntitledName = "未命名"

// Database Notion数据库对象，保留原始JSON结构
type Database map[string]interface{}

// Page Notion页面对象，保留原始JSON结构
type Page map[string]interface{}

// Block Notion内容块对象，保留原始JSON结构
type Block map[string]interface{}

// ID 返回数据库ID
func (d Database) ID() string {
	id, _ := d["id"].(string)
	return id
}

// Title 返回数据库标题，取title[0].plain_text，缺失时返回未命名
func (d Database) Title() string {
	return plainTextOf(d["title"])
}

// ID 返回页面ID
func (p Page) ID() string {
	id, _ := p["id"].(string)
	return id
}

// Properties 返回页面的属性映射
func (p Page) Properties() map[string]interface{} {
	props, _ := p["properties"].(map[string]interface{})
	return props
}

// Title 返回页面标题
// 取properties[titleProperty].title[0].plain_text，缺失时返回未命名
func (p Page) Title(titleProperty string) string {
	prop, _ := p.Properties()[titleProperty].(map[string]interface{})
	return plainTextOf(prop["title"])
}

// RichTextEmpty 判断指定属性的rich_text内容是否为空
// 属性缺失或数组为空均视为空
func (p Page) RichTextEmpty(property string) bool {
	prop, _ := p.Properties()[property].(map[string]interface{})
	richText, _ := prop["rich_text"].([]interface{})
	return len(richText) == 0
}

// Type 返回内容块的类型
func (b Block) Type() string {
	t, _ := b["type"].(string)
	return t
}

// Content 返回内容块类型对应的内容体
func (b Block) Content() map[string]interface{} {
	content, _ := b[b.Type()].(map[string]interface{})
	return content
}

// HasChildren 判断内容块是否包含子块
func (b Block) HasChildren() bool {
	has, _ := b["has_children"].(bool)
	return has
}

// ID 返回内容块ID
func (b Block) ID() string {
	id, _ := b["id"].(string)
	return id
}

// plainTextOf 从title数组中提取首个plain_text
func plainTextOf(title interface{}) string {
	items, _ := title.([]interface{})
	if len(items) == 0 {
		return UntitledName
	}
	first, _ := items[0].(map[string]interface{})
	text, _ := first["plain_text"].(string)
	if text == "" {
		return UntitledName
	}
	return text
}
