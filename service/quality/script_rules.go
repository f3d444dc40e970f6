/*
 * @module service/quality/script_rules
 * @description 自定义质量规则脚本执行器，支持用Go脚本扩展批次级校验逻辑
 * @architecture 解释器模式 - 基于Yaegi的脚本执行，按脚本哈希缓存编译结果
 * @documentReference ai_docs/compliance_req.md
 * @stateFlow 脚本提交 -> 语法校验 -> 编译缓存 -> 批次执行 -> 问题收集
 * @rules 脚本必须提供 Run(params) 入口函数；脚本错误不中断内置校验流程
 * @dependencies github.com/traefik/yaegi, crypto/sha1
 * @refs validator.go
 */

package quality

import (
	"context"
	"crypto/sha1"
	"fmt"
	"sync"
	"time"

	"compass-service/service/models"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ScriptRuleExecutor 自定义规则脚本执行器
type ScriptRuleExecutor struct {
	mu    sync.RWMutex
	cache map[string]*compiledScript
}

// compiledScript 编译后的脚本，保存可执行函数
type compiledScript struct {
	fn       func(map[string]interface{}) (interface{}, error)
	compiled time.Time // 编译时间
	hash     string    // 脚本哈希
}

// NewScriptRuleExecutor 创建脚本执行器
func NewScriptRuleExecutor() *ScriptRuleExecutor {
	return &ScriptRuleExecutor{
		cache: make(map[string]*compiledScript),
	}
}

// Execute 对一个批次执行自定义规则脚本，返回脚本产出的问题描述列表
// 脚本通过 params["records"] 拿到批次记录的map表示，通过 params["total"] 拿到总数
func (e *ScriptRuleExecutor) Execute(ctx context.Context, script string, records []models.ClientRecord) ([]string, error) {
	params := map[string]interface{}{
		"records": recordsToMaps(records),
		"total":   len(records),
	}

	result, err := e.execute(ctx, script, params)
	if err != nil {
		return nil, err
	}

	return coerceIssues(result), nil
}

// Validate 验证脚本语法，不执行
func (e *ScriptRuleExecutor) Validate(script string) error {
	hash := fmt.Sprintf("%x", sha1.Sum([]byte(script)))
	_, err := e.compile(script, hash)
	return err
}

// execute 执行脚本（带参数注入和缓存优化）
func (e *ScriptRuleExecutor) execute(ctx context.Context, script string, params map[string]interface{}) (interface{}, error) {
	// 使用脚本内容的哈希作为缓存key
	hash := fmt.Sprintf("%x", sha1.Sum([]byte(script)))

	// 先查缓存
	e.mu.RLock()
	compiled, ok := e.cache[hash]
	e.mu.RUnlock()

	if !ok {
		// 没有缓存则编译
		var err error
		compiled, err = e.compile(script, hash)
		if err != nil {
			return nil, fmt.Errorf("脚本编译失败: %v", err)
		}

		// 存入缓存
		e.mu.Lock()
		e.cache[hash] = compiled
		e.mu.Unlock()
	}

	// 调用编译后的函数
	return compiled.fn(params)
}

// compile 编译脚本为可执行函数
func (e *ScriptRuleExecutor) compile(script, hash string) (*compiledScript, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("加载标准库失败: %w", err)
	}

	// 包装脚本：要求脚本必须实现一个 Run 函数
	wrapped := fmt.Sprintf(`
package main

import (
	"fmt"
	"strings"
	"time"
)

var _ = fmt.Sprintf
var _ = strings.Contains
var _ = time.Now

%s
`, script)

	if _, err := i.Eval(wrapped); err != nil {
		return nil, fmt.Errorf("脚本求值失败: %w", err)
	}

	v, err := i.Eval("main.Run")
	if err != nil {
		return nil, fmt.Errorf("脚本缺少 Run 入口函数: %w", err)
	}

	fn, ok := v.Interface().(func(map[string]interface{}) (interface{}, error))
	if !ok {
		return nil, fmt.Errorf("Run 函数签名不正确，应为 func(map[string]interface{}) (interface{}, error)")
	}

	return &compiledScript{
		fn:       fn,
		compiled: time.Now(),
		hash:     hash,
	}, nil
}

// recordsToMaps 把记录批次转为脚本可消费的map切片
func recordsToMaps(records []models.ClientRecord) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(records))
	for i := range records {
		r := &records[i]
		m := map[string]interface{}{
			"client_id":        r.ClientID,
			"program_name":     r.ProgramName,
			"exit_destination": r.ExitDestination,
			"active":           r.IsActive(),
		}
		if r.IntakeDate != nil {
			m["intake_date"] = r.IntakeDate.Format("2006-01-02")
		}
		if r.ExitDate != nil {
			m["exit_date"] = r.ExitDate.Format("2006-01-02")
		}
		if r.HousingPlacementDate != nil {
			m["housing_placement_date"] = r.HousingPlacementDate.Format("2006-01-02")
		}
		if r.LengthOfStay != nil {
			m["length_of_stay"] = *r.LengthOfStay
		}
		out = append(out, m)
	}
	return out
}

// coerceIssues 把脚本返回值归一化为问题描述列表
func coerceIssues(result interface{}) []string {
	switch v := result.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []interface{}:
		issues := make([]string, 0, len(v))
		for _, item := range v {
			issues = append(issues, fmt.Sprintf("%v", item))
		}
		return issues
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}
