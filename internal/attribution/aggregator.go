// Package attribution 负责把注释片段归属到最内层声明，并按 (file, class) 聚合计数。
package attribution

import (
	"sort"

	"classcomments/internal/model"
)

// Aggregator 持有 AttributionKey 到 Counters 的映射。
// 它不做并发保护：并发场景下每个 worker 使用独立实例，最后统一 Merge。
type Aggregator struct {
	counters map[model.AttributionKey]*model.Counters
}

// NewAggregator 创建空聚合器。
func NewAggregator() *Aggregator {
	return &Aggregator{counters: make(map[model.AttributionKey]*model.Counters)}
}

// Seed 为权威声明清单中的每一项预置全零计数。
func (a *Aggregator) Seed(declarations []model.Declaration) {
	for _, decl := range declarations {
		a.Ensure(model.AttributionKey{File: decl.File, Class: decl.Class})
	}
}

// Ensure 返回键对应的计数器，不存在时插入全零计数器。
func (a *Aggregator) Ensure(key model.AttributionKey) *model.Counters {
	counters, ok := a.counters[key]
	if !ok {
		counters = &model.Counters{}
		a.counters[key] = counters
	}
	return counters
}

// Has 判断键是否存在。
func (a *Aggregator) Has(key model.AttributionKey) bool {
	_, ok := a.counters[key]
	return ok
}

// Get 返回键对应计数的副本。
func (a *Aggregator) Get(key model.AttributionKey) (model.Counters, bool) {
	counters, ok := a.counters[key]
	if !ok {
		return model.Counters{}, false
	}
	return *counters, true
}

// Add 把一个注释累加到指定键。
func (a *Aggregator) Add(key model.AttributionKey, token model.CommentToken) {
	a.Ensure(key).AddToken(token)
}

// Merge 把另一个聚合器的计数按键求和并入当前聚合器。
// 只存在于 other 中的键也会被创建。
func (a *Aggregator) Merge(other *Aggregator) {
	if other == nil {
		return
	}
	for key, counters := range other.counters {
		a.Ensure(key).Add(*counters)
	}
}

// Drop 删除某个文件的全部键，返回删除数量。
func (a *Aggregator) Drop(file string) int {
	removed := 0
	for key := range a.counters {
		if key.File == file {
			delete(a.counters, key)
			removed++
		}
	}
	return removed
}

// Len 返回键数量。
func (a *Aggregator) Len() int {
	return len(a.counters)
}

// Rows 返回按 (file, class) 字典序排序的全部行。
func (a *Aggregator) Rows() []model.Row {
	rows := make([]model.Row, 0, len(a.counters))
	for key, counters := range a.counters {
		rows = append(rows, model.Row{AttributionKey: key, Counters: *counters})
	}

	sort.Slice(rows, func(i int, j int) bool {
		return rows[i].AttributionKey.Less(rows[j].AttributionKey)
	})
	return rows
}
