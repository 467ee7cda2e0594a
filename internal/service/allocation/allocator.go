// Package allocation 提供录音文件到质检分析师的分配算法
package allocation

import (
	"errors"
	"fmt"
	"math/rand"
)

// Strategy 分配策略
type Strategy string

const (
	// StrategyDefault 按目标数量比例分配，余数在分析师间轮转
	StrategyDefault Strategy = "default"
	// StrategyAgentBalanced 按坐席分组后再比例分配，保证每位分析师都能听到每个坐席的通话
	StrategyAgentBalanced Strategy = "agent_balanced"
)

// 元数据缺少坐席标识的文件归入的分组
const unknownAgentGroup = "unknown"

// ErrNoTargets 目标列表为空或配额合计为零
var ErrNoTargets = errors.New("no allocation targets")

// FileRef 待分配文件
type FileRef struct {
	ID    string
	Agent string // 坐席标识，可为空
}

// Target 单个分析师的目标数量
type Target struct {
	AnalystID string `json:"analyst_id"`
	Count     int    `json:"count"`
}

// Options 分配选项
type Options struct {
	Strategy Strategy
	Shuffle  bool // 分配前打乱文件顺序
	Seed     int64
}

// Assignment 单个文件的分配结果
type Assignment struct {
	FileID    string
	AnalystID string
}

// Plan 分配结果
type Plan struct {
	Assignments []Assignment
	PerAnalyst  map[string]int // 每位分析师实际分到的数量
	Unassigned  []string       // 未分配的文件 ID
}

// Distribute 将文件集合分配给分析师
// 同样的输入在不打乱顺序时产生确定的分配结果
func Distribute(files []FileRef, targets []Target, opts Options) (*Plan, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}

	plan := &Plan{PerAnalyst: make(map[string]int, len(targets))}
	for _, t := range targets {
		plan.PerAnalyst[t.AnalystID] = 0
	}
	if len(files) == 0 {
		return plan, nil
	}

	pool := make([]FileRef, len(files))
	copy(pool, files)
	if opts.Shuffle {
		rng := rand.New(rand.NewSource(opts.Seed))
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}

	// 只有一位分析师时所有文件都归属该分析师，与策略无关
	if len(targets) == 1 {
		for _, f := range pool {
			plan.Assignments = append(plan.Assignments, Assignment{FileID: f.ID, AnalystID: targets[0].AnalystID})
			plan.PerAnalyst[targets[0].AnalystID]++
		}
		return plan, nil
	}

	switch opts.Strategy {
	case StrategyAgentBalanced:
		distributeByAgent(plan, pool, targets)
	default:
		quotas, _ := proportionalQuotas(len(pool), targets, 0)
		assignQuotas(plan, pool, targets, quotas)
	}

	return plan, nil
}

func validateTargets(targets []Target) error {
	if len(targets) == 0 {
		return ErrNoTargets
	}
	total := 0
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if t.AnalystID == "" {
			return fmt.Errorf("allocation target missing analyst id")
		}
		if t.Count < 0 {
			return fmt.Errorf("allocation target for %s has negative count", t.AnalystID)
		}
		if _, dup := seen[t.AnalystID]; dup {
			return fmt.Errorf("duplicate allocation target for %s", t.AnalystID)
		}
		seen[t.AnalystID] = struct{}{}
		total += t.Count
	}
	if total == 0 {
		return ErrNoTargets
	}
	return nil
}

// proportionalQuotas 计算每位分析师的配额：floor(count*target/total) 为基线，
// 余数从 cursor 位置起按原始顺序轮转补足，返回轮转推进后的新 cursor。
// 目标合计不小于文件数时轮转不会让任何人超过其目标值
func proportionalQuotas(count int, targets []Target, cursor int) ([]int, int) {
	total := 0
	for _, t := range targets {
		total += t.Count
	}

	quotas := make([]int, len(targets))
	assigned := 0
	for i, t := range targets {
		quotas[i] = count * t.Count / total
		assigned += quotas[i]
	}

	capped := total >= count
	remainder := count - assigned
	for remainder > 0 {
		progressed := false
		start := cursor
		for i := 0; i < len(targets) && remainder > 0; i++ {
			idx := (start + i) % len(targets)
			if targets[idx].Count == 0 {
				continue
			}
			if capped && quotas[idx] >= targets[idx].Count {
				continue
			}
			quotas[idx]++
			remainder--
			progressed = true
			cursor = (idx + 1) % len(targets)
		}
		if !progressed {
			// 所有人都已到达目标上限，剩余文件保持未分配
			break
		}
	}

	return quotas, cursor
}

// assignQuotas 按配额把文件池切给各分析师，文件顺序保持输入顺序
func assignQuotas(plan *Plan, pool []FileRef, targets []Target, quotas []int) {
	next := 0
	for i, t := range targets {
		for n := 0; n < quotas[i] && next < len(pool); n++ {
			plan.Assignments = append(plan.Assignments, Assignment{FileID: pool[next].ID, AnalystID: t.AnalystID})
			plan.PerAnalyst[t.AnalystID]++
			next++
		}
	}
	for ; next < len(pool); next++ {
		plan.Unassigned = append(plan.Unassigned, pool[next].ID)
	}
}

// distributeByAgent 按坐席分组，组内按原始目标比例分配
// 目标数量是跨组累计的硬上限：所有额度用尽后剩余文件保持未分配
// 余数轮转的起点跨组延续，避免每组的余数都落到同一位分析师头上
func distributeByAgent(plan *Plan, pool []FileRef, targets []Target) {
	groups := make(map[string][]FileRef)
	var order []string // 按首次出现顺序遍历分组，保证确定性
	for _, f := range pool {
		agent := f.Agent
		if agent == "" {
			agent = unknownAgentGroup
		}
		if _, ok := groups[agent]; !ok {
			order = append(order, agent)
		}
		groups[agent] = append(groups[agent], f)
	}

	used := make([]int, len(targets))
	cursor := 0
	for _, agent := range order {
		group := groups[agent]
		quotas, next := cappedQuotas(len(group), targets, used, cursor)
		assignQuotas(plan, group, targets, quotas)
		for i := range quotas {
			used[i] += quotas[i]
		}
		cursor = next
	}
}

// cappedQuotas 按原始目标比例计算本组配额，但每位分析师不超过其剩余额度
// (target - used)。余数从 cursor 位置起轮转补入仍有额度的分析师。
func cappedQuotas(count int, targets []Target, used []int, cursor int) ([]int, int) {
	total := 0
	for _, t := range targets {
		total += t.Count
	}

	quotas := make([]int, len(targets))
	assigned := 0
	for i, t := range targets {
		q := count * t.Count / total
		if rem := t.Count - used[i]; q > rem {
			q = rem
		}
		quotas[i] = q
		assigned += q
	}

	for assigned < count {
		progressed := false
		start := cursor
		for i := 0; i < len(targets) && assigned < count; i++ {
			idx := (start + i) % len(targets)
			if targets[idx].Count == 0 {
				continue
			}
			if used[idx]+quotas[idx] >= targets[idx].Count {
				continue
			}
			quotas[idx]++
			assigned++
			progressed = true
			cursor = (idx + 1) % len(targets)
		}
		if !progressed {
			// 所有人的额度都已用尽，剩余文件保持未分配
			break
		}
	}

	return quotas, cursor
}
