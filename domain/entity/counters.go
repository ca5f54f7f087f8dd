package entity

type Counters struct {
	Success    int
	Processing int
	Skipped    int
	Failed     int
}

// FinishOne は処理中カウンタを1減らす。0未満にはしない
func (c *Counters) FinishOne() {
	if c.Processing > 0 {
		c.Processing--
	}
}

// Statistics は /api/statistics のレスポンス
type Statistics struct {
	Today   *DailyTotals   `json:"today"`
	AllTime *AllTimeTotals `json:"all_time"`
}

type DailyTotals struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type AllTimeTotals struct {
	Total int `json:"total"`
}
