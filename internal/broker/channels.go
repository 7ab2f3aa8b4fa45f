package broker

import "strings"

// NormalizeChat brings channel references to one form: "t.me/name",
// "https://t.me/name" and "name" all become "@name". Numeric ids are kept.
func NormalizeChat(ref string) string {
	v := strings.TrimSpace(ref)
	v = strings.TrimPrefix(v, "https://")
	v = strings.TrimPrefix(v, "http://")
	v = strings.TrimPrefix(v, "t.me/")
	v = strings.TrimSuffix(v, "/")

	switch {
	case v == "":
		return ""
	case strings.HasPrefix(v, "@"), strings.HasPrefix(v, "-100"), isNumeric(strings.TrimPrefix(v, "-")):
		return v
	}
	return "@" + v
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// allowList matches normalized chat references. An empty list allows everything.
type allowList map[string]struct{}

func newAllowList(chats []string) allowList {
	list := make(allowList, len(chats))
	for _, c := range chats {
		if n := NormalizeChat(c); n != "" {
			list[strings.ToLower(n)] = struct{}{}
		}
	}
	return list
}

func (a allowList) allows(chat string) bool {
	if len(a) == 0 {
		return true
	}
	_, ok := a[strings.ToLower(NormalizeChat(chat))]
	return ok
}
