package client

import (
	"context"
	"sync"

	"SaturwayGo/models"
)

// Store 前端各数据域的唯一数据源。
// 变更走统一的乐观事务：快照→本地立即生效→远端调用→
// 用服务端权威版本覆盖，失败时整体回滚并记录域内错误。
// 每个任务带单调递增的版本号，过期的服务端响应直接丢弃
type Store struct {
	api *APIClient

	mu          sync.Mutex
	tasks       []models.Task
	moodLogs    []models.MoodLog
	todayEnergy []models.EnergyLog
	habit       *models.Habit
	insights    []models.AIInsight
	currentMood *models.MoodLog

	// 各域互相独立的加载与错误状态
	tasksLoading, moodLoading, habitLoading, energyLoading, insightsLoading bool
	tasksErr, moodErr, habitErr, energyErr, insightsErr                     string

	taskVersions map[string]uint64
}

func NewStore(api *APIClient) *Store {
	return &Store{
		api:          api,
		taskVersions: make(map[string]uint64),
	}
}

// InitializeApp 并发执行五个独立的拉取，互不阻塞。
// 单个拉取失败由它自己的错误处理兜住，不影响其他域，整体永远成功
func (s *Store) InitializeApp(ctx context.Context) {
	fetches := []func(context.Context) error{
		s.FetchTasks,
		func(ctx context.Context) error { return s.FetchMoodLogs(ctx, 7) },
		s.FetchAIInsights,
		s.FetchHabit,
		s.FetchTodayEnergy,
	}

	var wg sync.WaitGroup
	for _, fetch := range fetches {
		wg.Add(1)
		go func(f func(context.Context) error) {
			defer wg.Done()
			_ = f(ctx)
		}(fetch)
	}
	wg.Wait()
}

// FetchTasks 拉取任务列表。失败时保留旧数据，只记录错误
func (s *Store) FetchTasks(ctx context.Context) error {
	s.mu.Lock()
	s.tasksLoading = true
	s.tasksErr = ""
	s.mu.Unlock()

	tasks, err := s.api.GetTasks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasksLoading = false
	if err != nil {
		s.tasksErr = err.Error()
		return err
	}
	s.tasks = tasks
	return nil
}

// FetchMoodLogs 拉取近N天心情记录并重算当前心情
func (s *Store) FetchMoodLogs(ctx context.Context, days int) error {
	s.mu.Lock()
	s.moodLoading = true
	s.moodErr = ""
	s.mu.Unlock()

	logs, err := s.api.GetMoodLogs(ctx, days)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.moodLoading = false
	if err != nil {
		s.moodErr = err.Error()
		return err
	}
	s.moodLogs = logs
	s.recomputeCurrentMood()
	return nil
}

// FetchAIInsights 拉取AI洞察
func (s *Store) FetchAIInsights(ctx context.Context) error {
	s.mu.Lock()
	s.insightsLoading = true
	s.insightsErr = ""
	s.mu.Unlock()

	insights, err := s.api.GetInsights(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.insightsLoading = false
	if err != nil {
		s.insightsErr = err.Error()
		return err
	}
	s.insights = insights
	return nil
}

// FetchHabit 拉取当前活跃习惯，没有习惯不算错误
func (s *Store) FetchHabit(ctx context.Context) error {
	s.mu.Lock()
	s.habitLoading = true
	s.habitErr = ""
	s.mu.Unlock()

	habit, err := s.api.GetHabit(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.habitLoading = false
	if err != nil {
		s.habitErr = err.Error()
		return err
	}
	s.habit = habit
	return nil
}

// FetchTodayEnergy 拉取当天能量记录
func (s *Store) FetchTodayEnergy(ctx context.Context) error {
	s.mu.Lock()
	s.energyLoading = true
	s.energyErr = ""
	s.mu.Unlock()

	logs, err := s.api.GetTodayEnergy(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.energyLoading = false
	if err != nil {
		s.energyErr = err.Error()
		return err
	}
	s.todayEnergy = logs
	return nil
}

// taskMutation 一次任务变更的乐观事务参数
type taskMutation struct {
	id        string
	apply     func([]models.Task) []models.Task
	remote    func(context.Context) (*models.Task, error)
	reconcile func([]models.Task, *models.Task) []models.Task
}

// runTaskMutation 统一的乐观事务执行器。
// 本地变更在远端调用发起前就同步可见；远端失败时回滚到快照并上抛错误；
// 远端成功但该任务已被更晚的变更接管时，丢弃这份过期响应
func (s *Store) runTaskMutation(ctx context.Context, m taskMutation) error {
	s.mu.Lock()
	snapshot := cloneTasks(s.tasks)
	s.tasks = m.apply(cloneTasks(s.tasks))
	s.taskVersions[m.id]++
	version := s.taskVersions[m.id]
	s.tasksErr = ""
	s.mu.Unlock()

	server, err := m.remote(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	superseded := version != s.taskVersions[m.id]
	if err != nil {
		// 已有更晚的变更时状态归它管，这里只记错误
		if !superseded {
			s.tasks = snapshot
		}
		s.tasksErr = err.Error()
		return err
	}
	if superseded {
		return nil
	}
	if m.reconcile != nil {
		s.tasks = m.reconcile(s.tasks, server)
	}
	return nil
}

// CreateTask 创建任务。新任务的ID由服务端分配，所以不做乐观插入
func (s *Store) CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	task, err := s.api.CreateTask(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.tasksErr = err.Error()
		return nil, err
	}
	s.tasksErr = ""
	s.tasks = append(s.tasks, *task)
	return task, nil
}

// CompleteTask 完成任务。本地状态立即变为completed，
// 远端确认后换成服务端的权威版本（含服务端写入的完成时间）。
// 本地没有该任务时按无操作处理，不发远端请求
func (s *Store) CompleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	if !hasTask(s.tasks, id) {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.runTaskMutation(ctx, taskMutation{
		id: id,
		apply: func(tasks []models.Task) []models.Task {
			for i := range tasks {
				if tasks[i].ID == id {
					tasks[i].Status = models.StatusCompleted
				}
			}
			return tasks
		},
		remote: func(ctx context.Context) (*models.Task, error) {
			return s.api.CompleteTask(ctx, id)
		},
		reconcile: replaceTask(id),
	})
}

// UpdateTask 更新任务，同样的乐观事务语义
func (s *Store) UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) error {
	s.mu.Lock()
	if !hasTask(s.tasks, id) {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.runTaskMutation(ctx, taskMutation{
		id: id,
		apply: func(tasks []models.Task) []models.Task {
			for i := range tasks {
				if tasks[i].ID != id {
					continue
				}
				if req.Title != nil {
					tasks[i].Title = *req.Title
				}
				if req.Description != nil {
					tasks[i].Description = *req.Description
				}
				if req.Priority != nil {
					tasks[i].Priority = *req.Priority
				}
				if req.Status != nil {
					tasks[i].Status = *req.Status
				}
				if req.DueDate != nil {
					tasks[i].DueDate = req.DueDate
				}
			}
			return tasks
		},
		remote: func(ctx context.Context) (*models.Task, error) {
			return s.api.UpdateTask(ctx, id, req)
		},
		reconcile: replaceTask(id),
	})
}

// DeleteTask 删除任务。远端失败时任务回到原来的位置
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	if !hasTask(s.tasks, id) {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.runTaskMutation(ctx, taskMutation{
		id: id,
		apply: func(tasks []models.Task) []models.Task {
			filtered := tasks[:0]
			for _, task := range tasks {
				if task.ID != id {
					filtered = append(filtered, task)
				}
			}
			return filtered
		},
		remote: func(ctx context.Context) (*models.Task, error) {
			return nil, s.api.DeleteTask(ctx, id)
		},
	})
}

// LogMood 提交心情打卡，成功后追加记录并重算当前心情
func (s *Store) LogMood(ctx context.Context, req models.LogMoodRequest) error {
	log, err := s.api.LogMood(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.moodErr = err.Error()
		return err
	}
	s.moodErr = ""
	s.moodLogs = append(s.moodLogs, *log)
	s.recomputeCurrentMood()
	return nil
}

// LogEnergy 提交能量打卡
func (s *Store) LogEnergy(ctx context.Context, req models.LogEnergyRequest) error {
	log, err := s.api.LogEnergy(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.energyErr = err.Error()
		return err
	}
	s.energyErr = ""
	s.todayEnergy = append(s.todayEnergy, *log)
	return nil
}

// MarkHabitDone 习惯打卡，成功后用服务端返回的习惯覆盖本地
func (s *Store) MarkHabitDone(ctx context.Context, date string) error {
	habit, err := s.api.MarkHabitDone(ctx, date)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.habitErr = err.Error()
		return err
	}
	s.habitErr = ""
	s.habit = habit
	return nil
}

// recomputeCurrentMood 当前心情只有这一条重算路径：
// 取记录时间最晚的一条，不依赖远端返回的数组顺序。调用方须持有锁
func (s *Store) recomputeCurrentMood() {
	var latest *models.MoodLog
	for i := range s.moodLogs {
		if latest == nil || s.moodLogs[i].RecordDate.After(latest.RecordDate) {
			latest = &s.moodLogs[i]
		}
	}
	if latest == nil {
		s.currentMood = nil
		return
	}
	copied := *latest
	s.currentMood = &copied
}

// Tasks 返回任务列表的副本
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// MoodLogs 返回心情记录的副本
func (s *Store) MoodLogs() []models.MoodLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := make([]models.MoodLog, len(s.moodLogs))
	copy(logs, s.moodLogs)
	return logs
}

// TodayEnergy 返回当天能量记录的副本
func (s *Store) TodayEnergy() []models.EnergyLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := make([]models.EnergyLog, len(s.todayEnergy))
	copy(logs, s.todayEnergy)
	return logs
}

// Habit 返回当前习惯
func (s *Store) Habit() *models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.habit == nil {
		return nil
	}
	copied := *s.habit
	return &copied
}

// Insights 返回AI洞察的副本
func (s *Store) Insights() []models.AIInsight {
	s.mu.Lock()
	defer s.mu.Unlock()
	insights := make([]models.AIInsight, len(s.insights))
	copy(insights, s.insights)
	return insights
}

// CurrentMood 返回最近一条心情记录
func (s *Store) CurrentMood() *models.MoodLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentMood == nil {
		return nil
	}
	copied := *s.currentMood
	return &copied
}

// TasksError 任务域错误，空串表示无错误
func (s *Store) TasksError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasksErr
}

// MoodError 心情域错误
func (s *Store) MoodError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moodErr
}

// HabitError 习惯域错误
func (s *Store) HabitError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.habitErr
}

// EnergyError 能量域错误
func (s *Store) EnergyError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.energyErr
}

// InsightsError 洞察域错误
func (s *Store) InsightsError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insightsErr
}

func hasTask(tasks []models.Task, id string) bool {
	for _, task := range tasks {
		if task.ID == id {
			return true
		}
	}
	return false
}

func cloneTasks(tasks []models.Task) []models.Task {
	cloned := make([]models.Task, len(tasks))
	copy(cloned, tasks)
	return cloned
}

// replaceTask 用服务端版本替换对应条目，位置不变
func replaceTask(id string) func([]models.Task, *models.Task) []models.Task {
	return func(tasks []models.Task, server *models.Task) []models.Task {
		if server == nil {
			return tasks
		}
		for i := range tasks {
			if tasks[i].ID == id {
				tasks[i] = *server
			}
		}
		return tasks
	}
}
