package workspace

import (
	"fmt"
	"strings"

	"github.com/Alucardzh/notion-works/internal/notion"
)

// RenderMarkdown 将页面内容块渲染为Markdown文本
// 支持段落、标题、列表、待办、代码块、引用、分割线与标注
func RenderMarkdown(blocks []notion.Block) string {
	var builder strings.Builder

	for _, block := range blocks {
		content := block.Content()

		switch block.Type() {
		case "paragraph":
			if text := extractRichText(content["rich_text"]); text != "" {
				builder.WriteString(text + "\n\n")
			}
		case "heading_1":
			if text := extractRichText(content["rich_text"]); text != "" {
				builder.WriteString("# " + text + "\n\n")
			}
		case "heading_2":
			if text := extractRichText(content["rich_text"]); text != "" {
				builder.WriteString("## " + text + "\n\n")
			}
		case "heading_3":
			if text := extractRichText(content["rich_text"]); text != "" {
				builder.WriteString("### " + text + "\n\n")
			}
		case "bulleted_list_item":
			if text := extractRichText(content["rich_text"]); text != "" {
				builder.WriteString("* " + text + "\n")
			}
		case "numbered_list_item":
			if text := extractRichText(content["rich_text"]); text != "" {
				builder.WriteString("1. " + text + "\n")
			}
		case "to_do":
			if text := extractRichText(content["rich_text"]); text != "" {
				mark := " "
				if checked, _ := content["checked"].(bool); checked {
					mark = "x"
				}
				builder.WriteString(fmt.Sprintf("- [%s] %s\n", mark, text))
			}
		case "code":
			if text := extractRichText(content["rich_text"]); text != "" {
				language, _ := content["language"].(string)
				builder.WriteString(fmt.Sprintf("```%s\n%s\n```\n\n", language, text))
			}
		case "quote":
			if text := extractRichText(content["rich_text"]); text != "" {
				builder.WriteString("> " + text + "\n\n")
			}
		case "divider":
			builder.WriteString("---\n\n")
		case "callout":
			if text := extractRichText(content["rich_text"]); text != "" {
				icon := "💡"
				if iconObj, ok := content["icon"].(map[string]interface{}); ok {
					if emoji, ok := iconObj["emoji"].(string); ok && emoji != "" {
						icon = emoji
					}
				}
				builder.WriteString(icon + " " + text + "\n\n")
			}
		}
	}

	return builder.String()
}

// extractRichText 从富文本内容中提取文本并转换为Markdown标记
// 处理粗体、斜体、删除线、行内代码与超链接
func extractRichText(richText interface{}) string {
	items, _ := richText.([]interface{})
	if len(items) == 0 {
		return ""
	}

	var parts []string
	for _, item := range items {
		text, _ := item.(map[string]interface{})

		content := ""
		if textObj, ok := text["text"].(map[string]interface{}); ok {
			content, _ = textObj["content"].(string)
		}
		if content == "" {
			content, _ = text["plain_text"].(string)
		}

		if annotations, ok := text["annotations"].(map[string]interface{}); ok {
			if bold, _ := annotations["bold"].(bool); bold {
				content = "**" + content + "**"
			}
			if italic, _ := annotations["italic"].(bool); italic {
				content = "*" + content + "*"
			}
			if strikethrough, _ := annotations["strikethrough"].(bool); strikethrough {
				content = "~~" + content + "~~"
			}
			if code, _ := annotations["code"].(bool); code {
				content = "`" + content + "`"
			}
		}

		if href, _ := text["href"].(string); href != "" {
			content = fmt.Sprintf("[%s](%s)", content, href)
		}

		parts = append(parts, content)
	}

	return strings.Join(parts, "")
}
