/*
 * @module service/quality/script_rules_test
 * @description 自定义规则脚本执行器单元测试
 * @architecture 单元测试
 */

package quality

import (
	"context"
	"testing"

	"compass-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const duplicateClientScript = `
func Run(params map[string]interface{}) (interface{}, error) {
	records := params["records"].([]map[string]interface{})
	seen := map[string]int{}
	for _, r := range records {
		id, _ := r["client_id"].(string)
		if id != "" {
			seen[id]++
		}
	}
	issues := []string{}
	for id, n := range seen {
		if n > 3 {
			issues = append(issues, fmt.Sprintf("client %s has %d enrollment rows", id, n))
		}
	}
	return issues, nil
}
`

// TestScriptRuleExecute 测试脚本规则执行
func TestScriptRuleExecute(t *testing.T) {
	executor := NewScriptRuleExecutor()

	records := make([]models.ClientRecord, 0, 5)
	for i := 0; i < 4; i++ {
		records = append(records, models.ClientRecord{ClientID: "c-001", ProgramName: "Detox"})
	}
	records = append(records, models.ClientRecord{ClientID: "c-002", ProgramName: "Detox"})

	issues, err := executor.Execute(context.Background(), duplicateClientScript, records)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "client c-001 has 4 enrollment rows", issues[0])
}

// TestScriptRuleValidate 测试脚本语法校验
func TestScriptRuleValidate(t *testing.T) {
	executor := NewScriptRuleExecutor()

	t.Run("合法脚本", func(t *testing.T) {
		err := executor.Validate(`
func Run(params map[string]interface{}) (interface{}, error) {
	return nil, nil
}
`)
		assert.NoError(t, err)
	})

	t.Run("缺少Run入口", func(t *testing.T) {
		err := executor.Validate(`
func Other() {}
`)
		assert.Error(t, err)
	})
}

// TestScriptRuleCompileCache 测试同一脚本的编译缓存复用
func TestScriptRuleCompileCache(t *testing.T) {
	executor := NewScriptRuleExecutor()
	script := `
func Run(params map[string]interface{}) (interface{}, error) {
	return params["total"], nil
}
`

	_, err := executor.Execute(context.Background(), script, nil)
	require.NoError(t, err)
	assert.Len(t, executor.cache, 1)

	_, err = executor.Execute(context.Background(), script, nil)
	require.NoError(t, err)
	assert.Len(t, executor.cache, 1)
}
