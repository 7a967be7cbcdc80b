package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LineRole 是从纯文本行形状推断出的结构角色。
type LineRole int

const (
	RoleBody LineRole = iota
	RoleHeading
	RoleName
	RoleBullet
	RoleContact
	RoleSeparator
)

var roleNames = map[LineRole]string{
	RoleBody:      "body",
	RoleHeading:   "heading",
	RoleName:      "name",
	RoleBullet:    "bullet",
	RoleContact:   "contact",
	RoleSeparator: "separator",
}

// Roles 按固定顺序返回全部角色。
func Roles() []LineRole {
	return []LineRole{RoleBody, RoleHeading, RoleName, RoleBullet, RoleContact, RoleSeparator}
}

func (r LineRole) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "unknown"
}

// ParseRole 将样式表中的角色名解析为 LineRole。
func ParseRole(name string) (LineRole, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "contact-info" || key == "contactinfo" {
		key = "contact"
	}
	for role, s := range roleNames {
		if s == key {
			return role, nil
		}
	}
	return RoleBody, fmt.Errorf("未知角色 %q", name)
}

func (r LineRole) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *LineRole) UnmarshalText(b []byte) error {
	role, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

const (
	defaultSeparatorRun = 20
	maxHeadingLength    = 50
)

var defaultHeadings = []string{
	"education",
	"working experience",
	"core skills",
	"projects",
	"languages",
	"certificates",
}

var defaultLinkTokens = []string{"linkedin.com", "github.com", "http://", "https://", "www."}

// Classifier 保存分类所需的查表数据。构造后只读，Classify 是纯函数。
type Classifier struct {
	headings     map[string]struct{}
	separatorRun int
	linkTokens   []string
}

// DefaultClassifier 返回仅识别固定章节标题（不做同义词匹配）的分类器。
func DefaultClassifier() *Classifier {
	c := &Classifier{
		headings:     map[string]struct{}{},
		separatorRun: defaultSeparatorRun,
		linkTokens:   append([]string(nil), defaultLinkTokens...),
	}
	for _, h := range defaultHeadings {
		c.headings[normalizeTitle(h)] = struct{}{}
	}
	return c
}

// WithHeadings 返回额外识别 titles 的分类器副本。
func (c *Classifier) WithHeadings(titles ...string) *Classifier {
	out := &Classifier{
		headings:     make(map[string]struct{}, len(c.headings)+len(titles)),
		separatorRun: c.separatorRun,
		linkTokens:   c.linkTokens,
	}
	for h := range c.headings {
		out.headings[h] = struct{}{}
	}
	for _, t := range titles {
		if n := normalizeTitle(t); n != "" {
			out.headings[n] = struct{}{}
		}
	}
	return out
}

// Headings 返回已识别的标题数量。
func (c *Classifier) Headings() int { return len(c.headings) }

// Classify 按优先级判定行角色，先匹配者胜出：
// 分隔线 > 章节标题 > 首行姓名 > 联系方式 > 列表项 > 正文。
func (c *Classifier) Classify(line string, firstOverall bool) LineRole {
	trimmed := strings.TrimSpace(line)
	switch {
	case c.isSeparator(trimmed):
		return RoleSeparator
	case c.isHeading(trimmed):
		return RoleHeading
	case firstOverall:
		return RoleName
	case c.isContact(trimmed):
		return RoleContact
	case isBullet(trimmed):
		return RoleBullet
	default:
		return RoleBody
	}
}

// Classify 使用默认分类器。
func Classify(line string, firstOverall bool) LineRole {
	return defaultClassifier.Classify(line, firstOverall)
}

var defaultClassifier = DefaultClassifier()

func (c *Classifier) isSeparator(s string) bool {
	n := 0
	for _, r := range s {
		if !isDash(r) {
			return false
		}
		n++
	}
	return n >= c.separatorRun
}

func isDash(r rune) bool {
	switch r {
	case '-', '‐', '‒', '–', '—', '―', '─', '━':
		return true
	}
	return false
}

func (c *Classifier) isHeading(s string) bool {
	if utf8.RuneCountInString(s) >= maxHeadingLength {
		return false
	}
	_, ok := c.headings[normalizeTitle(s)]
	return ok
}

func (c *Classifier) isContact(s string) bool {
	if strings.ContainsAny(s, "@|") {
		return true
	}
	lower := strings.ToLower(s)
	for _, tok := range c.linkTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func isBullet(s string) bool {
	return strings.HasPrefix(s, "•") || strings.HasPrefix(s, "-")
}

// normalizeTitle 折叠大小写与内部空白，"Working   Experience" 与 "working experience" 等价。
func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
