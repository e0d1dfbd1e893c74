package domain

import "strings"

const MIMEOctetStream = "application/octet-stream"

// Закрытая таблица расширение→MIME. Валидность ключа определяется членством
// в этой таблице, поэтому системный mime-реестр здесь не используется.
var mimeByExt = map[string]string{
	// изображения и шрифты
	"png":   "image/png",
	"jpg":   "image/jpeg",
	"jpeg":  "image/jpeg",
	"gif":   "image/gif",
	"webp":  "image/webp",
	"svg":   "image/svg+xml",
	"ico":   "image/x-icon",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"ttf":   "font/ttf",
	"otf":   "font/otf",
	// текст и данные
	"css":  "text/css; charset=utf-8",
	"js":   "application/javascript",
	"json": "application/json",
	"xml":  "application/xml",
	"txt":  "text/plain; charset=utf-8",
	"html": "text/html; charset=utf-8",
	"md":   "text/markdown; charset=utf-8",
	"csv":  "text/csv; charset=utf-8",
	// документы и архивы
	"pdf":  "application/pdf",
	"zip":  "application/zip",
	"gz":   "application/gzip",
	"tar":  "application/x-tar",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	// медиа
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"ogg":  "audio/ogg",
	"wav":  "audio/wav",
}

// Ext возвращает расширение после последней точки, в нижнем регистре.
// Пустая строка, если точки нет или она в директорной части пути.
func Ext(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || i == len(path)-1 || strings.IndexByte(path[i+1:], '/') >= 0 {
		return ""
	}
	return strings.ToLower(path[i+1:])
}

// ResolveContentType — тотальная функция: незнакомое расширение → octet-stream.
func ResolveContentType(path string) string {
	if mt, ok := mimeByExt[Ext(path)]; ok {
		return mt
	}
	return MIMEOctetStream
}

func KnownExt(ext string) bool {
	_, ok := mimeByExt[strings.ToLower(ext)]
	return ok
}
