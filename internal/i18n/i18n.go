// Package i18n 提供国际化支持
// 负责管理应用程序的语言包和翻译功能
package i18n

import (
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",
			"not_found":             "资源未找到",
			"too_many_requests":     "请求过于频繁",
			"service_unavailable":   "服务不可用",

			"notion_request_failed":  "Notion API请求失败",
			"notion_unauthorized":    "Notion集成令牌无效",
			"notion_object_missing":  "Notion对象不存在",
			"notion_rate_limited":    "Notion API请求过于频繁",
			"notion_decode_failed":   "Notion响应解析失败",
			"notion_token_missing":   "未配置Notion集成令牌",

			"property_add_failed":    "添加属性失败",
			"property_remove_failed": "删除属性失败",
			"property_exists":        "属性已存在",
			"property_not_found":     "属性不存在",
			"page_update_failed":     "更新页面内容时出错",

			"database_query":  "数据库查询错误",
			"database_insert": "数据库插入错误",
			"database_delete": "数据库删除错误",

			"export_render_failed": "导出内容生成失败",
			"export_upload_failed": "导出文件上传失败",

			"unknown_error": "未知错误",
		},
		LangEnUS: {
			"success":               "Success",
			"internal_server_error": "Internal Server Error",
			"invalid_params":        "Invalid Parameters",
			"not_found":             "Resource Not Found",
			"too_many_requests":     "Too Many Requests",
			"service_unavailable":   "Service Unavailable",

			"notion_request_failed":  "Notion API Request Failed",
			"notion_unauthorized":    "Invalid Notion Integration Token",
			"notion_object_missing":  "Notion Object Not Found",
			"notion_rate_limited":    "Notion API Rate Limited",
			"notion_decode_failed":   "Failed To Decode Notion Response",
			"notion_token_missing":   "Notion Integration Token Not Configured",

			"property_add_failed":    "Failed To Add Property",
			"property_remove_failed": "Failed To Remove Property",
			"property_exists":        "Property Already Exists",
			"property_not_found":     "Property Not Found",
			"page_update_failed":     "Failed To Update Page Content",

			"database_query":  "Database Query Error",
			"database_insert": "Database Insert Error",
			"database_delete": "Database Delete Error",

			"export_render_failed": "Failed To Render Export",
			"export_upload_failed": "Failed To Upload Export",

			"unknown_error": "Unknown Error",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangZhCN,
		}
		instance.initTranslators()
	})
	return instance
}

// initTranslators 初始化翻译器
func (i *I18n) initTranslators() {
	zhCN := zh.New()
	enUS := en_US.New()
	uni := ut.New(zhCN, enUS, zhCN)

	// 注册支持的语言 - 使用locale库的标识符
	langMappings := map[string]string{
		LangZhCN: "zh",
		LangEnUS: "en_US",
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			continue
		}
		i.translators[ourLang] = trans
	}
}

// Translate 根据键和语言获取翻译
func (i *I18n) Translate(key, lang string) string {
	if translation, found := translations[lang][key]; found {
		return translation
	}

	// 如果当前语言没有找到，尝试在默认语言中查找
	if lang != i.defaultLang {
		if translation, found := translations[i.defaultLang][key]; found {
			return translation
		}
	}

	return key
}

// SetDefaultLanguage 设置默认语言
func (i *I18n) SetDefaultLanguage(lang string) {
	i.defaultLang = lang
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	return i.defaultLang
}

// IsSupportedLanguage 检查语言是否支持
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}
