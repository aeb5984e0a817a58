package trade

import (
	"fmt"
	"strings"
)

// Report 一次操作的结构化结果，由 chat 层统一渲染。
// 操作失败时不构造 Report，错误沿错误链上抛。
type Report struct {
	Action    string
	BundleIDs []string
	TxCount   int
	Lamports  uint64 // 动用的 lamports（含 tip）
	Lines     []string
}

func (r *Report) addLine(format string, args ...interface{}) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

// Render 渲染为发回聊天的文本
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s done\n", r.Action)
	for _, line := range r.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(r.BundleIDs) == 1 {
		fmt.Fprintf(&b, "Bundle: %s\n", r.BundleIDs[0])
	} else if len(r.BundleIDs) > 1 {
		fmt.Fprintf(&b, "Bundles: %s\n", strings.Join(r.BundleIDs, ", "))
	}
	return b.String()
}
