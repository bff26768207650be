package checkout

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fields 待校验的账户表单字段
type Fields struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Country         string `json:"country"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	PaymentMethod   string `json:"paymentMethod"`
	Agree           bool   `json:"agree"`
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[\d\s+().-]{7,}$`)
)

// 密码必须包含的特殊字符集
const passwordSymbols = "!@#$%^&*-"

// Validate 纯函数：字段 → 字段名到错误文案的映射。每个字段最多一条错误，
// 先命中的规则生效。映射为空即表单有效
func Validate(f Fields) map[string]string {
	e := make(map[string]string)
	if strings.TrimSpace(f.FirstName) == "" {
		e["firstName"] = "First name is required."
	}
	if strings.TrimSpace(f.LastName) == "" {
		e["lastName"] = "Last name is required."
	}
	if strings.TrimSpace(f.Email) == "" {
		e["email"] = "Email is required."
	} else if !emailRe.MatchString(f.Email) {
		e["email"] = "Enter a valid email address"
	}
	if strings.TrimSpace(f.Phone) == "" {
		e["phone"] = "Phone is required."
	} else if !phoneRe.MatchString(f.Phone) {
		e["phone"] = "Enter a valid phone number"
	}
	if f.Country == "" {
		e["country"] = "Select a country"
	}
	if f.Password == "" {
		e["password"] = "Password is required."
	} else if !strongPassword(f.Password) {
		e["password"] = "Min 8 chars, uppercase, lowercase, number and special (!@#$%^&*-)"
	}
	if f.ConfirmPassword == "" {
		e["confirmPassword"] = "Confirm your password"
	} else if f.ConfirmPassword != f.Password {
		e["confirmPassword"] = "Passwords do not match"
	}
	if f.PaymentMethod == "" {
		e["paymentMethod"] = "Select a payment method"
	}
	if !f.Agree {
		e["agree"] = "You must accept Terms and Conditions"
	}
	return e
}

// strongPassword 长度≥8（按字符数，不是字节数），且小写/大写/数字/特殊字符各至少一个
func strongPassword(p string) bool {
	if utf8.RuneCountInString(p) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
