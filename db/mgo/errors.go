package mgo

import "errors"

var (
	ErrNotConnected     = errors.New("mgo: not connected")
	ErrConnectionFailed = errors.New("mgo: connection failed")
	ErrPingFailed       = errors.New("mgo: ping failed")
	ErrReadFailed       = errors.New("mgo: read failed")
	ErrWriteFailed      = errors.New("mgo: write failed")
)
