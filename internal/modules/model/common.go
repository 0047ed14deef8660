package model

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
