package userpath

import "errors"

var errNoPath = errors.New("login shell did not report a PATH")
