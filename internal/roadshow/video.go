package roadshow

import "regexp"

// VideoRef 可内嵌播放的视频标识
type VideoRef struct {
	Provider string
	ID       string
}

// 可识别的内嵌视频链接格式，按顺序匹配
var videoPatterns = []struct {
	provider string
	re       *regexp.Regexp
}{
	{"bilibili", regexp.MustCompile(`(?:bilibili\.com/video/|b23\.tv/)(BV[0-9A-Za-z]{10})`)},
	{"tencent", regexp.MustCompile(`v\.qq\.com/(?:x/page|x/cover/[0-9a-z]+)/([0-9a-z]{11})\.html`)},
	{"tencent", regexp.MustCompile(`v\.qq\.com/.*[?&]vid=([0-9a-z]{11})`)},
	{"youtube", regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/|youtube\.com/embed/)([A-Za-z0-9_-]{11})`)},
}

// ExtractVideo 从链接中提取视频标识，不匹配任何格式时 ok=false
func ExtractVideo(rawURL string) (VideoRef, bool) {
	for _, p := range videoPatterns {
		if m := p.re.FindStringSubmatch(rawURL); len(m) == 2 {
			return VideoRef{Provider: p.provider, ID: m[1]}, true
		}
	}
	return VideoRef{}, false
}

// ExtractVideoFrom 依次尝试多个链接，返回第一个命中的视频标识
func ExtractVideoFrom(urls ...string) (VideoRef, bool) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if ref, ok := ExtractVideo(u); ok {
			return ref, true
		}
	}
	return VideoRef{}, false
}
