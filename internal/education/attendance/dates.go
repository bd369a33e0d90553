package attendance

import "time"

// 日付は全てUTCの暦日（"YYYY-MM-DD"）。タイムゾーン換算はしない。

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// from..to（両端含む）の暦日を昇順で列挙する。from > to は呼び出し側で弾くこと。
func datesBetween(from, to time.Time) []string {
	out := make([]string, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateLayout))
	}
	return out
}
