package processor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// processedAddrs 从结果中取出被处理（含失败尝试）的账户首字节编号。
func processedAddrs(result Result) (processed, skipped []byte) {
	for _, o := range result.Outcomes {
		if o.Action == ActionSkip {
			skipped = append(skipped, o.Holding.Address[0])
		} else {
			processed = append(processed, o.Holding.Address[0])
		}
	}
	return
}

// 输入 [n, y, a]，4 个账户：第 4 个因 AUTO_ALL 不再询问，
// 处理 {2,3,4}，跳过 {1}。
func TestInteractiveRun_AutoAll(t *testing.T) {
	sub := &fakeSubmitter{}
	var out bytes.Buffer
	p := NewInteractiveProcessor(sub, testSigner(), false, false, strings.NewReader("n\ny\na\n"), &out)

	result := p.Run(context.Background(), emptyHoldings(4))

	processed, skipped := processedAddrs(result)
	assert.Equal(t, []byte{2, 3, 4}, processed)
	assert.Equal(t, []byte{1}, skipped)
	assert.Equal(t, 3, result.Submitted, "每个处理的账户单独一笔交易")
	assert.Equal(t, 3, result.Closed)
}

// 输入 [y, q]，4 个账户：quit 连同当前账户一并跳过，
// 处理 {1}，跳过 {2,3,4}，且迭代走完以产出完整统计。
func TestInteractiveRun_Quit(t *testing.T) {
	sub := &fakeSubmitter{}
	var out bytes.Buffer
	p := NewInteractiveProcessor(sub, testSigner(), false, false, strings.NewReader("y\nq\n"), &out)

	result := p.Run(context.Background(), emptyHoldings(4))

	processed, skipped := processedAddrs(result)
	assert.Equal(t, []byte{1}, processed)
	assert.Equal(t, []byte{2, 3, 4}, skipped)
	assert.Len(t, result.Outcomes, 4, "SKIP_ALL 下仍需走完全部账户")
	assert.Equal(t, 1, result.Submitted)
}

// 输入耗尽（EOF）等价于 quit。
func TestInteractiveRun_EOF(t *testing.T) {
	sub := &fakeSubmitter{}
	var out bytes.Buffer
	p := NewInteractiveProcessor(sub, testSigner(), false, false, strings.NewReader("y\n"), &out)

	result := p.Run(context.Background(), emptyHoldings(3))

	processed, skipped := processedAddrs(result)
	assert.Equal(t, []byte{1}, processed)
	assert.Equal(t, []byte{2, 3}, skipped)
}

// 单账户提交失败只影响该账户，状态机与后续迭代不受影响。
func TestInteractiveRun_FailureIsolated(t *testing.T) {
	sub := &fakeSubmitter{failAt: map[int]error{0: errors.New("node unreachable")}}
	var out bytes.Buffer
	p := NewInteractiveProcessor(sub, testSigner(), false, false, strings.NewReader("a\n"), &out)

	result := p.Run(context.Background(), emptyHoldings(3))

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Closed, "失败账户之后的账户仍应处理")
	assert.Equal(t, 2, result.Submitted)

	require.Len(t, result.Outcomes, 3)
	assert.Equal(t, ActionFail, result.Outcomes[0].Action)
	assert.Error(t, result.Outcomes[0].Err)
}

// dry-run：统计照常累计但不触达提交接口。
func TestInteractiveRun_DryRun(t *testing.T) {
	sub := &fakeSubmitter{}
	var out bytes.Buffer
	p := NewInteractiveProcessor(sub, testSigner(), false, true, strings.NewReader("a\n"), &out)

	result := p.Run(context.Background(), emptyHoldings(3))

	assert.Equal(t, 3, result.Closed)
	assert.Equal(t, 0, result.Submitted)
	assert.Empty(t, sub.instrCount, "dry-run 不得调用提交接口")
}

// 大小写与空白输入的归一化。
func TestInteractiveRun_InputNormalization(t *testing.T) {
	sub := &fakeSubmitter{}
	var out bytes.Buffer
	p := NewInteractiveProcessor(sub, testSigner(), false, false, strings.NewReader("  YES \nQ\n"), &out)

	result := p.Run(context.Background(), emptyHoldings(3))

	processed, skipped := processedAddrs(result)
	assert.Equal(t, []byte{1}, processed)
	assert.Equal(t, []byte{2, 3}, skipped)
}
