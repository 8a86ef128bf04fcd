package utils

import (
	"errors"
	"regexp"
	"strings"
)

// 排序参数来自查询串,拼进 ORDER BY 之前必须经过这里
var (
	sortFieldPattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	sortFieldStrip   = regexp.MustCompile(`[^a-zA-Z0-9_.]`)
	sqlKeywordGuard  = regexp.MustCompile(`\b(SELECT|INSERT|UPDATE|DELETE|DROP|ALTER|CREATE|` +
		`EXEC|EXECUTE|UNION|SCRIPT|DECLARE|CAST|CONVERT|FROM|WHERE|ORDER|BY|GROUP|HAVING|` +
		`JOIN|INNER|OUTER|LEFT|RIGHT|ON|AS|AND|OR|NOT|IN)\b`)
)

// ValidateSortField 校验排序字段
// 只接受列名形态(字母数字、下划线和表名限定的点),且不得命中 SQL 关键字;
// 关键字按完整单词匹配,registered_voters 这类带下划线的列名不会误判
func ValidateSortField(field string) error {
	if field == "" {
		return errors.New("sort field cannot be empty")
	}
	if !sortFieldPattern.MatchString(field) {
		return errors.New("invalid sort field format")
	}
	if sqlKeywordGuard.MatchString(strings.ToUpper(field)) {
		return errors.New("sort field contains SQL keyword")
	}
	return nil
}

// SanitizeSortField 清洗排序字段,剔除列名字符之外的一切
func SanitizeSortField(field string) string {
	return sortFieldStrip.ReplaceAllString(field, "")
}

// SanitizeSortOrder 清洗排序方向,无法识别时退回 DESC
func SanitizeSortOrder(order string) string {
	switch strings.ToUpper(strings.TrimSpace(order)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	return "DESC"
}

// OrderClause 组装 ORDER BY 子句
// 字段清洗后还要过调用方给的列白名单,不在名单内的整体退回 fallback
func OrderClause(field, order string, allowed map[string]bool, fallback string) string {
	f := SanitizeSortField(field)
	if f == "" || !allowed[f] {
		return fallback
	}
	return f + " " + SanitizeSortOrder(order)
}
