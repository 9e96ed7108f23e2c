package naming

import (
	"fmt"
	"strings"
)

// buildImagePrompt asks for a short Chinese noun phrase describing the image,
// grounded in the document text around the reference.
func buildImagePrompt(refContext, hint string) string {
	var b strings.Builder
	b.WriteString("请根据图片内容和下面的文档上下文，为这张图片起一个简短的中文文件名。\n\n")
	b.WriteString("要求:\n")
	b.WriteString("1. 只返回文件名本身，不要扩展名，不要解释\n")
	b.WriteString("2. 使用简洁的中文名词短语，不超过14个字符\n")
	b.WriteString("3. 名称应概括图片的核心内容\n")
	b.WriteString("4. 不要使用空格和特殊符号\n\n")
	b.WriteString("正例: 网络拓扑图、损失函数曲线、系统架构图\n")
	b.WriteString("反例: 这是一张图片、image1、屏幕截图 2024\n\n")
	writeHint(&b, hint)
	b.WriteString("文档上下文:\n")
	b.WriteString(refContext)
	return b.String()
}

// buildTextPrompt is the variant for models that cannot see the image; the
// name must come from the document context alone.
func buildTextPrompt(refContext, hint string) string {
	var b strings.Builder
	b.WriteString("无法提供图片内容，请仅根据下面的文档上下文推断这张图片的内容，")
	b.WriteString("并为它起一个简短的中文文件名。\n\n")
	b.WriteString("要求:\n")
	b.WriteString("1. 只返回文件名本身，不要扩展名，不要解释\n")
	b.WriteString("2. 使用简洁的中文名词短语，不超过14个字符\n")
	b.WriteString("3. 不要使用空格和特殊符号\n\n")
	writeHint(&b, hint)
	b.WriteString("文档上下文:\n")
	b.WriteString(refContext)
	return b.String()
}

func writeHint(b *strings.Builder, hint string) {
	if hint == "" {
		return
	}
	fmt.Fprintf(b, "注意: %s\n\n", hint)
}
