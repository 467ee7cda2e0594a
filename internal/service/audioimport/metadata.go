// Package audioimport 提供录音元数据 Excel 的解析与规范化
package audioimport

import (
	"strings"

	"github.com/ashwinyue/next-qa/internal/model"
)

// 规范化后的元数据键
const (
	MetaAgentID     = "agent_id"
	MetaAgentName   = "agent_name"
	MetaPartnerName = "partner_name"
	MetaCampaign    = "campaign"
	MetaCustomerID  = "customer_id"
	MetaDisposition = "disposition"
)

// 已知列的别名表，键为 normalizeKey 后的形式
// 同一逻辑字段在上游表格里存在多种大小写/空格/下划线写法，
// 在入库时统一映射到规范键，未识别的列进入 extras
var metaAliases = map[string]string{
	"agentid":      MetaAgentID,
	"agentcode":    MetaAgentID,
	"empid":        MetaAgentID,
	"employeeid":   MetaAgentID,
	"csrid":        MetaAgentID,
	"agentname":    MetaAgentName,
	"csrname":      MetaAgentName,
	"partnername":  MetaPartnerName,
	"partner":      MetaPartnerName,
	"vendorname":   MetaPartnerName,
	"campaign":     MetaCampaign,
	"campaignname": MetaCampaign,
	"process":      MetaCampaign,
	"customerid":   MetaCustomerID,
	"custid":       MetaCustomerID,
	"disposition":  MetaDisposition,
	"calltype":     MetaDisposition,
}

// normalizeKey 列名归一化：小写并去掉空格、下划线、连字符和点
func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeMetadata 将自由键值对映射为规范键，未识别的键原样放入 extras
func NormalizeMetadata(raw map[string]string) (canonical model.JSONMap, extras model.JSONMap) {
	canonical = model.JSONMap{}
	extras = model.JSONMap{}
	for key, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if canon, ok := metaAliases[normalizeKey(key)]; ok {
			canonical[canon] = value
		} else {
			extras[strings.TrimSpace(key)] = value
		}
	}
	return canonical, extras
}

// AgentIdentifier 从规范化元数据中取坐席标识
func AgentIdentifier(meta model.JSONMap) string {
	if meta == nil {
		return ""
	}
	return meta[MetaAgentID]
}
