package services

import (
	"strings"
	"testing"

	"SaturwayGo/models"
)

func TestBuildInsightsHighCompletion(t *testing.T) {
	taskStats := models.TaskStats{Total: 20, Completed: 15, Pending: 5, CompletionRate: 75}
	moodStats := models.MoodStats{AvgMood: 8, AvgEnergy: 8, AvgFocus: 8, Trend: models.TrendStable, Count: 7}

	insights := BuildInsights(taskStats, moodStats)

	if !hasInsightWith(insights, "70%") {
		t.Error("expected the >70% positive insight")
	}
	if hasInsightWith(insights, "精力不足") {
		t.Error("low-energy insight should not fire at energy 8")
	}
	if hasInsightWith(insights, "专注不足") {
		t.Error("low-focus insight should not fire at focus 8")
	}
}

func TestBuildInsightsLowCompletion(t *testing.T) {
	taskStats := models.TaskStats{Total: 10, Completed: 2, Pending: 8, CompletionRate: 20}

	insights := BuildInsights(taskStats, models.MoodStats{})

	if !hasInsightWith(insights, "30%") {
		t.Error("expected the <30% prompting insight")
	}
}

func TestBuildInsightsDecliningLowEnergyLowFocus(t *testing.T) {
	taskStats := models.TaskStats{Total: 10, Completed: 5, Pending: 5, CompletionRate: 50}
	moodStats := models.MoodStats{AvgMood: 4, AvgEnergy: 3, AvgFocus: 4, Trend: models.TrendDeclining, Count: 7}

	insights := BuildInsights(taskStats, moodStats)

	if len(insights) != 3 {
		t.Fatalf("insights length = %d, want 3", len(insights))
	}
	categories := map[string]bool{}
	for _, insight := range insights {
		categories[insight.Category] = true
	}
	if !categories[models.CategoryWellness] || !categories[models.CategoryProductivity] {
		t.Errorf("categories = %v", categories)
	}
}

func TestBuildInsightsEmptyData(t *testing.T) {
	// 没有任务和心情数据时不产生任何洞察，也不能误触发低精力规则
	insights := BuildInsights(models.TaskStats{}, models.MoodStats{})
	if len(insights) != 0 {
		t.Errorf("insights = %v, want none", insights)
	}
}

func TestComputeMoodStatsAverages(t *testing.T) {
	logs := []models.MoodLog{
		{Mood: 6, Energy: 4, Focus: 8},
		{Mood: 8, Energy: 6, Focus: 6},
	}

	stats := ComputeMoodStats(logs)

	if stats.AvgMood != 7 || stats.AvgEnergy != 5 || stats.AvgFocus != 7 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Trend != models.TrendStable {
		t.Errorf("trend = %q, want stable with too few logs", stats.Trend)
	}
}

func TestComputeMoodStatsDecliningTrend(t *testing.T) {
	logs := []models.MoodLog{
		{Mood: 8}, {Mood: 8}, {Mood: 4}, {Mood: 4},
	}

	stats := ComputeMoodStats(logs)
	if stats.Trend != models.TrendDeclining {
		t.Errorf("trend = %q, want declining", stats.Trend)
	}
}

func TestComputeMoodStatsImprovingTrend(t *testing.T) {
	logs := []models.MoodLog{
		{Mood: 3}, {Mood: 4}, {Mood: 7}, {Mood: 8},
	}

	stats := ComputeMoodStats(logs)
	if stats.Trend != models.TrendImproving {
		t.Errorf("trend = %q, want improving", stats.Trend)
	}
}

func hasInsightWith(insights []models.AIInsight, substr string) bool {
	for _, insight := range insights {
		if strings.Contains(insight.Title, substr) || strings.Contains(insight.Description, substr) {
			return true
		}
	}
	return false
}
