package guide

import "strconv"

// ExtractTimerMinutes 取第一個「N분」類型的時間，無法解析時為 0
func ExtractTimerMinutes(text string) int {
	m := timerPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return minutes
}

// ExtractTotalMinutes 擷取「총 조리시간: N분」，找不到或無法解析時為 0
func ExtractTotalMinutes(text string) int {
	m := totalTimePattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return minutes
}

// SumTimerMinutes 加總所有步驟的計時分鐘數
func SumTimerMinutes(steps []Step) int {
	total := 0
	for _, s := range steps {
		total += s.TimerMinutes
	}
	return total
}
