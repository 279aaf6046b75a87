package workspace

import (
	"testing"

	"github.com/Alucardzh/notion-works/internal/notion"
	"github.com/stretchr/testify/assert"
)

// textBlock 构造只含纯文本的内容块
func textBlock(blockType, text string) notion.Block {
	return notion.Block{
		"type": blockType,
		blockType: map[string]interface{}{
			"rich_text": []interface{}{
				map[string]interface{}{
					"text": map[string]interface{}{"content": text},
				},
			},
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Run("常见块类型", func(t *testing.T) {
		blocks := []notion.Block{
			textBlock("heading_1", "一级标题"),
			textBlock("heading_2", "二级标题"),
			textBlock("heading_3", "三级标题"),
			textBlock("paragraph", "正文段落"),
			textBlock("bulleted_list_item", "无序项"),
			textBlock("numbered_list_item", "有序项"),
			textBlock("quote", "引用内容"),
			{"type": "divider", "divider": map[string]interface{}{}},
		}

		markdown := RenderMarkdown(blocks)
		assert.Contains(t, markdown, "# 一级标题\n\n")
		assert.Contains(t, markdown, "## 二级标题\n\n")
		assert.Contains(t, markdown, "### 三级标题\n\n")
		assert.Contains(t, markdown, "正文段落\n\n")
		assert.Contains(t, markdown, "* 无序项\n")
		assert.Contains(t, markdown, "1. 有序项\n")
		assert.Contains(t, markdown, "> 引用内容\n\n")
		assert.Contains(t, markdown, "---\n\n")
	})

	t.Run("待办勾选状态", func(t *testing.T) {
		blocks := []notion.Block{
			{
				"type": "to_do",
				"to_do": map[string]interface{}{
					"rich_text": []interface{}{
						map[string]interface{}{"plain_text": "已完成事项"},
					},
					"checked": true,
				},
			},
			{
				"type": "to_do",
				"to_do": map[string]interface{}{
					"rich_text": []interface{}{
						map[string]interface{}{"plain_text": "待办事项"},
					},
					"checked": false,
				},
			},
		}

		markdown := RenderMarkdown(blocks)
		assert.Contains(t, markdown, "- [x] 已完成事项\n")
		assert.Contains(t, markdown, "- [ ] 待办事项\n")
	})

	t.Run("代码块带语言标记", func(t *testing.T) {
		blocks := []notion.Block{
			{
				"type": "code",
				"code": map[string]interface{}{
					"rich_text": []interface{}{
						map[string]interface{}{"plain_text": "fmt.Println(\"hello\")"},
					},
					"language": "go",
				},
			},
		}

		markdown := RenderMarkdown(blocks)
		assert.Contains(t, markdown, "```go\nfmt.Println(\"hello\")\n```\n\n")
	})

	t.Run("标注使用自定义图标", func(t *testing.T) {
		blocks := []notion.Block{
			{
				"type": "callout",
				"callout": map[string]interface{}{
					"rich_text": []interface{}{
						map[string]interface{}{"plain_text": "注意事项"},
					},
					"icon": map[string]interface{}{"emoji": "⚠️"},
				},
			},
		}

		markdown := RenderMarkdown(blocks)
		assert.Contains(t, markdown, "⚠️ 注意事项\n\n")
	})

	t.Run("空内容块不产生输出", func(t *testing.T) {
		blocks := []notion.Block{
			textBlock("paragraph", ""),
			{"type": "unsupported_type"},
		}
		assert.Equal(t, "", RenderMarkdown(blocks))
	})
}

func TestExtractRichText(t *testing.T) {
	t.Run("注解转换为Markdown标记", func(t *testing.T) {
		richText := []interface{}{
			map[string]interface{}{
				"text": map[string]interface{}{"content": "加粗"},
				"annotations": map[string]interface{}{
					"bold": true,
				},
			},
			map[string]interface{}{
				"text": map[string]interface{}{"content": "斜体"},
				"annotations": map[string]interface{}{
					"italic": true,
				},
			},
			map[string]interface{}{
				"text": map[string]interface{}{"content": "删除"},
				"annotations": map[string]interface{}{
					"strikethrough": true,
				},
			},
			map[string]interface{}{
				"text": map[string]interface{}{"content": "代码"},
				"annotations": map[string]interface{}{
					"code": true,
				},
			},
		}

		assert.Equal(t, "**加粗***斜体*~~删除~~`代码`", extractRichText(richText))
	})

	t.Run("链接渲染", func(t *testing.T) {
		richText := []interface{}{
			map[string]interface{}{
				"text": map[string]interface{}{"content": "官网"},
				"href": "https://example.com",
			},
		}

		assert.Equal(t, "[官网](https://example.com)", extractRichText(richText))
	})

	t.Run("回退到plain_text", func(t *testing.T) {
		richText := []interface{}{
			map[string]interface{}{"plain_text": "纯文本"},
		}
		assert.Equal(t, "纯文本", extractRichText(richText))
	})

	t.Run("空富文本", func(t *testing.T) {
		assert.Equal(t, "", extractRichText(nil))
		assert.Equal(t, "", extractRichText([]interface{}{}))
	})
}
