package services

import (
	"time"

	"SaturwayGo/config"
	"SaturwayGo/models"
	"SaturwayGo/utils"
)

// 规则引擎的阈值，刻度见models.MoodStats
const (
	highCompletionRate = 70.0
	lowCompletionRate  = 30.0
	lowEnergyThreshold = 5.0
	lowFocusThreshold  = 5.0
)

// TaskStatsFor 统计用户的任务完成情况
func TaskStatsFor(userID string) (models.TaskStats, error) {
	var stats models.TaskStats

	var tasks []models.Task
	if err := config.DB.Where("user_id = ? AND status <> ?", userID, models.StatusCancelled).
		Find(&tasks).Error; err != nil {
		return stats, err
	}

	for _, task := range tasks {
		stats.Total++
		switch task.Status {
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusPending, models.StatusInProgress:
			stats.Pending++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats, nil
}

// MoodStatsFor 统计用户近N天的心情记录，均值按1-10刻度
func MoodStatsFor(userID string, days int) (models.MoodStats, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)

	var logs []models.MoodLog
	if err := config.DB.Where("user_id = ? AND record_date >= ?", userID, since).
		Order("record_date asc").Find(&logs).Error; err != nil {
		return models.MoodStats{}, err
	}

	return ComputeMoodStats(logs), nil
}

// ComputeMoodStats 对心情记录计算均值和走势。
// 走势取前后两半的心情均值差：差值超过0.5判定为上升/下滑，否则平稳
func ComputeMoodStats(logs []models.MoodLog) models.MoodStats {
	stats := models.MoodStats{Trend: models.TrendStable, Count: len(logs)}
	if len(logs) == 0 {
		return stats
	}

	var moodSum, energySum, focusSum int
	for _, log := range logs {
		moodSum += log.Mood
		energySum += log.Energy
		focusSum += log.Focus
	}
	n := float64(len(logs))
	stats.AvgMood = float64(moodSum) / n
	stats.AvgEnergy = float64(energySum) / n
	stats.AvgFocus = float64(focusSum) / n

	if len(logs) >= 4 {
		half := len(logs) / 2
		firstAvg := avgMood(logs[:half])
		secondAvg := avgMood(logs[half:])
		switch {
		case secondAvg-firstAvg > 0.5:
			stats.Trend = models.TrendImproving
		case firstAvg-secondAvg > 0.5:
			stats.Trend = models.TrendDeclining
		}
	}
	return stats
}

func avgMood(logs []models.MoodLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	var sum int
	for _, log := range logs {
		sum += log.Mood
	}
	return float64(sum) / float64(len(logs))
}

// BuildInsights 纯规则引擎：只依赖两组数值统计和一个走势标签，
// 不访问网络，LLM提供商不可用时这里仍然工作
func BuildInsights(taskStats models.TaskStats, moodStats models.MoodStats) []models.AIInsight {
	var insights []models.AIInsight

	if taskStats.Total > 0 {
		if taskStats.CompletionRate > highCompletionRate {
			insights = append(insights, newInsight(
				"完成率表现出色",
				"任务完成率超过70%，保持当前的节奏就很好",
				models.CategoryProductivity, models.PriorityLow, false))
		} else if taskStats.CompletionRate < lowCompletionRate {
			insights = append(insights, newInsight(
				"试着从小任务开始",
				"任务完成率低于30%，挑一件最小的待办先完成，找回节奏",
				models.CategoryProductivity, models.PriorityHigh, true))
		}
	}

	if moodStats.Count > 0 {
		if moodStats.Trend == models.TrendDeclining {
			insights = append(insights, newInsight(
				"心情在走低",
				"最近的心情走势在下滑，给自己留一点放松的时间",
				models.CategoryWellness, models.PriorityMedium, true))
		}
		if moodStats.AvgEnergy < lowEnergyThreshold {
			insights = append(insights, newInsight(
				"精力偏低",
				"近期平均精力不足5分，注意睡眠，把重的任务拆小",
				models.CategoryWellness, models.PriorityMedium, true))
		}
		if moodStats.AvgFocus < lowFocusThreshold {
			insights = append(insights, newInsight(
				"专注度偏低",
				"近期平均专注不足5分，试试25分钟的番茄钟隔离干扰",
				models.CategoryProductivity, models.PriorityMedium, true))
		}
	}

	return insights
}

func newInsight(title, description, category, priority string, actionable bool) models.AIInsight {
	return models.AIInsight{
		ID:          utils.GenerateID(),
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Actionable:  actionable,
		CreatedAt:   time.Now().UTC(),
	}
}
