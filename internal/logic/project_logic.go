package logic

import (
	"context"
	"fmt"
	"math/big"

	"github.com/blues/launchpad/internal/ledger"
	"github.com/blues/launchpad/internal/logger"
	"github.com/blues/launchpad/internal/metrics"
	"github.com/blues/launchpad/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

// ProjectLogic 项目注册表：项目目录与平台统计
type ProjectLogic struct {
	host *ledger.Host
}

// NewProjectLogic 创建项目注册表
func NewProjectLogic(host *ledger.Host) *ProjectLogic {
	return &ProjectLogic{host: host}
}

type projectTable map[uint64]model.Project

func loadProjects(env *ledger.Env) (projectTable, error) {
	projects := projectTable{}
	if _, err := env.Persistent().Get(keyProjects, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func loadCount(scope ledger.Scope, key string) (uint64, error) {
	var n uint64
	if _, err := scope.Get(key, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Initialize 设置管理员并清零计数器。重复调用会重置计数器并替换管理员。
func (p *ProjectLogic) Initialize(ctx context.Context, admin common.Address) error {
	err := p.host.Invoke(ctx, RegistryNamespace, ActionInitialize, func(env *ledger.Env) error {
		if err := env.RequireAuth(admin); err != nil {
			return err
		}
		if err := env.Instance().Set(keyAdmin, admin); err != nil {
			return err
		}
		if err := env.Instance().Set(keyProjectCount, uint64(0)); err != nil {
			return err
		}
		return env.Instance().Set(keyStats, model.PlatformStats{TotalFunded: model.Zero()})
	})
	if err != nil {
		return fmt.Errorf("初始化项目注册表失败: %w", err)
	}
	logger.Info("项目注册表已初始化, admin: %s", admin.Hex())
	return nil
}

// IsInitialized 注册表是否已初始化
func (p *ProjectLogic) IsInitialized(ctx context.Context) (bool, error) {
	var ok bool
	err := p.host.View(ctx, RegistryNamespace, func(env *ledger.Env) error {
		var err error
		ok, err = env.Instance().Has(keyAdmin)
		return err
	})
	return ok, err
}

// CreateProject 创建项目，状态为 Draft，返回新项目 id
func (p *ProjectLogic) CreateProject(ctx context.Context, creator common.Address, in model.ProjectInput) (uint64, error) {
	if err := model.CheckI128(in.FundingGoal); err != nil {
		return 0, err
	}

	var id uint64
	err := p.host.Invoke(ctx, RegistryNamespace, ActionCreateProject, func(env *ledger.Env) error {
		if err := env.RequireAuth(creator); err != nil {
			return err
		}

		count, err := loadCount(env.Instance(), keyProjectCount)
		if err != nil {
			return err
		}
		id = count + 1

		projects, err := loadProjects(env)
		if err != nil {
			return err
		}
		goal := model.Zero()
		if in.FundingGoal != nil {
			goal.Set(in.FundingGoal)
		}
		projects[id] = model.Project{
			ID:           id,
			Creator:      creator,
			Title:        in.Title,
			Description:  in.Description,
			FundingGoal:  goal,
			InterestRate: in.InterestRate,
			LoanTerm:     in.LoanTerm,
			GithubURL:    in.GithubURL,
			LiveURL:      in.LiveURL,
			SCFStatus:    in.SCFStatus,
			PoolAddress:  in.PoolAddress,
			Status:       model.ProjectStatusDraft,
			CreatedAt:    env.Now(),
			TotalRaised:  model.Zero(),
		}
		if err := env.Persistent().Set(keyProjects, projects); err != nil {
			return err
		}
		if err := env.Instance().Set(keyProjectCount, id); err != nil {
			return err
		}

		var stats model.PlatformStats
		if err := env.Instance().Require(keyStats, &stats); err != nil {
			return err
		}
		stats.TotalProjects++
		return env.Instance().Set(keyStats, stats)
	})
	if err != nil {
		return 0, fmt.Errorf("创建项目失败: %w", err)
	}

	metrics.ProjectsCreated.Inc()
	logger.Info("项目创建成功, id: %d, creator: %s", id, creator.Hex())
	return id, nil
}

// GetProject 获取项目，不存在时 found 为 false
func (p *ProjectLogic) GetProject(ctx context.Context, id uint64) (project model.Project, found bool, err error) {
	err = p.host.View(ctx, RegistryNamespace, func(env *ledger.Env) error {
		projects, err := loadProjects(env)
		if err != nil {
			return err
		}
		project, found = projects[id]
		return nil
	})
	return project, found, err
}

// GetAllProjects 按 id 升序返回 1..count 的项目，跳过目录中缺失的 id
func (p *ProjectLogic) GetAllProjects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	err := p.host.View(ctx, RegistryNamespace, func(env *ledger.Env) error {
		projects, err := loadProjects(env)
		if err != nil {
			return err
		}
		count, err := loadCount(env.Instance(), keyProjectCount)
		if err != nil {
			return err
		}
		out = make([]model.Project, 0, count)
		for id := uint64(1); id <= count; id++ {
			if project, ok := projects[id]; ok {
				out = append(out, project)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("获取项目列表失败: %w", err)
	}
	return out, nil
}

// UpdateProjectStatus 管理员覆盖项目状态，不校验状态迁移是否合理
func (p *ProjectLogic) UpdateProjectStatus(ctx context.Context, id uint64, status model.ProjectStatus) error {
	if !status.Valid() {
		return model.ErrInvalidStatus
	}
	err := p.host.Invoke(ctx, RegistryNamespace, ActionUpdateProjectStatus, func(env *ledger.Env) error {
		var admin common.Address
		if err := env.Instance().Require(keyAdmin, &admin); err != nil {
			return err
		}
		if err := env.RequireAuth(admin); err != nil {
			return err
		}

		projects, err := loadProjects(env)
		if err != nil {
			return err
		}
		project, ok := projects[id]
		if !ok {
			return nil
		}
		project.Status = status
		projects[id] = project
		return env.Persistent().Set(keyProjects, projects)
	})
	if err != nil {
		return fmt.Errorf("更新项目状态失败: %w", err)
	}
	return nil
}

// UpdateProjectFunding 把 amount 计入项目募资额和平台总额。任何调用方都可以调用，amount 可以为负。
func (p *ProjectLogic) UpdateProjectFunding(ctx context.Context, id uint64, amount *big.Int) error {
	if err := model.CheckI128(amount); err != nil {
		return err
	}
	err := p.host.Invoke(ctx, RegistryNamespace, ActionUpdateProjectFunding, func(env *ledger.Env) error {
		projects, err := loadProjects(env)
		if err != nil {
			return err
		}
		project, ok := projects[id]
		if !ok {
			return nil
		}
		if project.TotalRaised, err = model.AddI128(project.TotalRaised, amount); err != nil {
			return err
		}
		projects[id] = project
		if err := env.Persistent().Set(keyProjects, projects); err != nil {
			return err
		}

		var stats model.PlatformStats
		if err := env.Instance().Require(keyStats, &stats); err != nil {
			return err
		}
		if stats.TotalFunded, err = model.AddI128(stats.TotalFunded, amount); err != nil {
			return err
		}
		return env.Instance().Set(keyStats, stats)
	})
	if err != nil {
		return fmt.Errorf("更新项目募资额失败: %w", err)
	}
	return nil
}

// GetPlatformStats 平台统计快照
func (p *ProjectLogic) GetPlatformStats(ctx context.Context) (model.PlatformStats, error) {
	var stats model.PlatformStats
	err := p.host.View(ctx, RegistryNamespace, func(env *ledger.Env) error {
		return env.Instance().Require(keyStats, &stats)
	})
	if stats.TotalFunded == nil {
		stats.TotalFunded = model.Zero()
	}
	return stats, err
}

// Admin 当前管理员
func (p *ProjectLogic) Admin(ctx context.Context) (common.Address, error) {
	var admin common.Address
	err := p.host.View(ctx, RegistryNamespace, func(env *ledger.Env) error {
		return env.Instance().Require(keyAdmin, &admin)
	})
	return admin, err
}
