//go:build windows

package userpath

// GUI processes on Windows already see the user's PATH
func (r *Resolver) compute() string {
	return r.systemPath
}

func loginShellPath() (string, error) {
	return "", errNoPath
}
