package utils_test

import (
	"strings"
	"testing"

	"github.com/mautops/election-gin/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidatePersonName 测试人名校验
func TestValidatePersonName(t *testing.T) {
	assert.NoError(t, utils.ValidatePersonName("Paul Essomba"))
	assert.NoError(t, utils.ValidatePersonName("Marie-Claire Ngo Bassa"))

	assert.Equal(t, utils.ErrEmptyName, utils.ValidatePersonName(""))
	assert.Equal(t, utils.ErrEmptyName, utils.ValidatePersonName("   "))
	assert.Equal(t, utils.ErrNameTooLong, utils.ValidatePersonName(strings.Repeat("a", 101)))
	assert.Equal(t, utils.ErrDangerousChars, utils.ValidatePersonName("<script>alert(1)</script>"))
	assert.Equal(t, utils.ErrDangerousChars, utils.ValidatePersonName("Robert'; drop table candidates"))
}

// TestValidateStationName 测试投票站名称校验
func TestValidateStationName(t *testing.T) {
	assert.NoError(t, utils.ValidateStationName("EPP Centre Ville, Bureau 3"))
	assert.NoError(t, utils.ValidateStationName(strings.Repeat("a", 255)))

	assert.Equal(t, utils.ErrEmptyName, utils.ValidateStationName(""))
	assert.Equal(t, utils.ErrNameTooLong, utils.ValidateStationName(strings.Repeat("a", 256)))
	assert.Equal(t, utils.ErrDangerousChars, utils.ValidateStationName("bureau <img src=x onerror=1>"))
}

// TestSanitizeString 测试字符串清理
func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", utils.SanitizeString("<b>bold</b>"))
	// 控制字符剔除,换行和制表保留
	assert.Equal(t, "a\nb\tc", utils.SanitizeString("a\nb\tc\x00"))
}

// TestTrimAndValidate 测试清理加校验
func TestTrimAndValidate(t *testing.T) {
	got, err := utils.TrimAndValidate("  hello  ", 10)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = utils.TrimAndValidate("   ", 10)
	assert.Equal(t, utils.ErrEmptyString, err)

	_, err = utils.TrimAndValidate("toolongvalue", 5)
	assert.Equal(t, utils.ErrStringTooLong, err)
}

// TestValidateSortField 测试排序字段白名单
func TestValidateSortField(t *testing.T) {
	assert.NoError(t, utils.ValidateSortField("registered_voters"))
	assert.NoError(t, utils.ValidateSortField("polling_stations.name"))

	assert.Error(t, utils.ValidateSortField(""))
	assert.Error(t, utils.ValidateSortField("name; drop table users"))
	assert.Error(t, utils.ValidateSortField("name,region"))
}

// TestSanitizeSortField 测试排序字段清洗
func TestSanitizeSortField(t *testing.T) {
	assert.Equal(t, "turnout_rate", utils.SanitizeSortField("turnout_rate"))
	assert.Equal(t, "namedroptable", utils.SanitizeSortField("name; drop table"))
	assert.Equal(t, "", utils.SanitizeSortField(";--"))
}

// TestOrderClause 测试 ORDER BY 子句组装
func TestOrderClause(t *testing.T) {
	allowed := map[string]bool{"name": true, "registered_voters": true}
	fallback := "region ASC, name ASC"

	assert.Equal(t, "registered_voters DESC", utils.OrderClause("registered_voters", "desc", allowed, fallback))
	assert.Equal(t, "name ASC", utils.OrderClause("name", "asc", allowed, fallback))

	// 名单外的字段和注入尝试整体退回 fallback
	assert.Equal(t, fallback, utils.OrderClause("turnout_rate", "asc", allowed, fallback))
	assert.Equal(t, fallback, utils.OrderClause("name; drop table polling_stations", "desc", allowed, fallback))
	assert.Equal(t, fallback, utils.OrderClause("", "asc", allowed, fallback))
}

// TestSanitizeSortOrder 测试排序方向清洗
func TestSanitizeSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", utils.SanitizeSortOrder("asc"))
	assert.Equal(t, "DESC", utils.SanitizeSortOrder(" DESC "))
	assert.Equal(t, "DESC", utils.SanitizeSortOrder("sideways"))
	assert.Equal(t, "DESC", utils.SanitizeSortOrder(""))
}
