// Package metrics 平台的 prometheus 指标
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProjectsCreated 已创建项目数
	ProjectsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "projects_created_total",
		Help:      "Total number of projects created in the registry.",
	})

	// Investments 投资次数，按结果区分
	Investments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "investments_total",
		Help:      "Total number of invest calls by outcome.",
	}, []string{"outcome"})

	// Withdrawals 提现次数，paid 表示返回了非零金额
	Withdrawals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "withdrawals_total",
		Help:      "Total number of withdraw calls.",
	}, []string{"paid"})

	// BadgesMinted 铸造的成就徽章数
	BadgesMinted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "badges_minted_total",
		Help:      "Total number of achievement badges minted.",
	}, []string{"type"})

	// AuthFailures 授权失败次数
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "auth_failures_total",
		Help:      "Total number of rejected authorization proofs.",
	}, []string{"action"})

	// LedgerInvocations 账本调用次数，按组件和结果区分
	LedgerInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "ledger_invocations_total",
		Help:      "Ledger invocations by component and result.",
	}, []string{"component", "result"})

	// SyncRuns 资金池同步任务执行次数
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "launchpad",
		Name:      "pool_sync_runs_total",
		Help:      "Pool sync job runs by result.",
	}, []string{"result"})
)

// Component 从命名空间取出组件名，pool:0xabc -> pool
func Component(namespace string) string {
	if i := strings.IndexByte(namespace, ':'); i >= 0 {
		return namespace[:i]
	}
	return namespace
}
