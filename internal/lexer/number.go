package lexer

import "strconv"

func parseInt(text string) int64 {
	v, _ := strconv.ParseInt(text, 10, 64)
	return v
}

func parseFloat(text string) float64 {
	v, _ := strconv.ParseFloat(text, 64)
	return v
}
