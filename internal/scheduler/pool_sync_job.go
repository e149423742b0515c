package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blues/launchpad/internal/logger"
	"github.com/blues/launchpad/internal/logic"
	"github.com/blues/launchpad/internal/metrics"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// PoolSyncJob 资金池同步任务：把资金池募资额同步到项目注册表，并标记已募满的项目
type PoolSyncJob struct {
	launch   *logic.LaunchLogic
	projects *logic.ProjectLogic
	interval time.Duration
	workers  int
}

// NewPoolSyncJob 创建资金池同步任务
func NewPoolSyncJob(launch *logic.LaunchLogic, projects *logic.ProjectLogic, interval time.Duration, workers int) *PoolSyncJob {
	if workers < 1 {
		workers = 1
	}
	return &PoolSyncJob{
		launch:   launch,
		projects: projects,
		interval: interval,
		workers:  workers,
	}
}

// GetName 获取任务名称
func (j *PoolSyncJob) GetName() string {
	return "pool_sync"
}

// GetSchedule 获取调度配置
func (j *PoolSyncJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务
func (j *PoolSyncJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	log := logger.With(zap.String("job", j.GetName()))
	synced, failed, err := j.Run(ctx)
	if err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		log.Error("资金池同步失败: %v", err)
		return
	}
	metrics.SyncRuns.WithLabelValues("ok").Inc()
	log.Info("资金池同步完成, synced: %d, failed: %d", synced, failed)
}

// Run 并发同步全部项目
func (j *PoolSyncJob) Run(ctx context.Context) (synced, failed int, err error) {
	projects, err := j.projects.GetAllProjects(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(projects) == 0 {
		return 0, 0, nil
	}

	pool, err := ants.NewPool(j.workers)
	if err != nil {
		return 0, 0, err
	}
	defer pool.Release()

	var ok, bad int64
	var wg sync.WaitGroup
	for _, project := range projects {
		id := project.ID
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := j.launch.ReconcileProject(ctx, id); err != nil {
				logger.Error("同步项目 %d 失败: %v", id, err)
				atomic.AddInt64(&bad, 1)
				return
			}
			atomic.AddInt64(&ok, 1)
		}); err != nil {
			wg.Done()
			logger.Error("Failed to submit task to pool: %v", err)
			atomic.AddInt64(&bad, 1)
		}
	}
	wg.Wait()

	return int(ok), int(bad), nil
}
