package models

import "time"

// 能量打卡的五档刻度
var EnergyLevels = []int{20, 40, 60, 80, 100}

// EnergyLog 能量记录模型，创建后不可修改，只追加
type EnergyLog struct {
	ID         string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(50);index" json:"user_id"`
	Level      int       `json:"level"` // 20/40/60/80/100
	Note       string    `gorm:"type:text" json:"note,omitempty"`
	Source     string    `gorm:"type:varchar(50)" json:"source,omitempty"`
	RecordDate time.Time `json:"recordDate"`
}

// IsValidEnergyLevel 校验能量档位
func IsValidEnergyLevel(level int) bool {
	for _, l := range EnergyLevels {
		if level == l {
			return true
		}
	}
	return false
}
