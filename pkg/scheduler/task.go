// pkg/scheduler/task.go
package scheduler

import (
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"BidRadar/pkg/engine"
	"BidRadar/pkg/model"
)

// Scheduler 周期性优化任务调度器
type Scheduler struct {
	cron      *cron.Cron
	optimizer *engine.Optimizer
	opts      model.RunOptions
	running   sync.Mutex
}

// NewScheduler 创建任务调度器
func NewScheduler(optimizer *engine.Optimizer, opts model.RunOptions) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		optimizer: optimizer,
		opts:      opts,
	}
}

// Start 启动调度器，每2小时执行一轮优化
func (s *Scheduler) Start() {
	s.cron.AddFunc("@every 2h", s.runOnce)
	s.cron.Start()
	log.Println("调度器已启动，优化周期: 2小时")
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("调度器已停止")
}

// RunNow 立即执行一轮优化
func (s *Scheduler) RunNow() (*model.RunResult, error) {
	s.running.Lock()
	defer s.running.Unlock()

	return s.optimizer.Run(s.opts)
}

// runOnce 定时触发的单轮执行，上一轮未结束时不并发
func (s *Scheduler) runOnce() {
	log.Println("定时优化任务触发...")

	result, err := s.RunNow()
	if err != nil {
		log.Printf("优化运行失败: %v", err)
		return
	}

	log.Printf("定时优化完成 (run_id: %s): 调价 %d, 活动动作 %d",
		result.RunID, len(result.BidDecisions), len(result.CampaignActions))
}
