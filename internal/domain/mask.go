package domain

// MaskPhone masks the middle digits of a phone number: 01012341234 ->
// 010****1234. Short values are masked entirely.
func MaskPhone(phone string) string {
	if phone == "" {
		return ""
	}

	if len(phone) < 8 {
		return "****"
	}

	return phone[:3] + "****" + phone[len(phone)-4:]
}

// MaskIdentifier masks a CI/DI style identifier, keeping the first and last
// four characters.
func MaskIdentifier(v string) string {
	if v == "" {
		return ""
	}

	if len(v) <= 8 {
		return "****"
	}

	return v[:4] + "********" + v[len(v)-4:]
}
