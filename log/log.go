// Copyright 2022-2026 The CoreEVM Authors
// This file is part of the CoreEVM library.
//
// The CoreEVM library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The CoreEVM library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the CoreEVM library. If not, see <http://www.gnu.org/licenses/>.

// Package log wraps logrus with a small structured-context API: a logger
// that accumulates key/value context and emits levelled records, rather
// than formatted strings. No other package of this module imports it.
package log

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging interface this package provides. With
// returns a child logger with additional context fields.
type Logger interface {
	With(ctx ...interface{}) Logger
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
}

type logger struct {
	entry *logrus.Entry
}

var (
	root     *logrus.Logger
	rootOnce sync.Once
)

func rootLogger() *logrus.Logger {
	rootOnce.Do(func() {
		root = logrus.New()
		root.SetOutput(os.Stderr)
		root.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		root.SetLevel(logrus.InfoLevel)
	})
	return root
}

// New returns a fresh root-level logger with the given context fields.
func New(ctx ...interface{}) Logger {
	return &logger{entry: rootLogger().WithFields(ctxToFields(ctx))}
}

// Root returns the package-level default logger with no context.
func Root() Logger {
	return &logger{entry: logrus.NewEntry(rootLogger())}
}

// SetLevel adjusts the minimum level the root logger emits.
func SetLevel(lvl logrus.Level) {
	rootLogger().SetLevel(lvl)
}

func ctxToFields(ctx []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		key, ok := ctx[i].(string)
		if !ok {
			continue
		}
		fields[key] = ctx[i+1]
	}
	return fields
}

func (l *logger) With(ctx ...interface{}) Logger {
	return &logger{entry: l.entry.WithFields(ctxToFields(ctx))}
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.entry.WithFields(ctxToFields(ctx)).Trace(msg) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.entry.WithFields(ctxToFields(ctx)).Debug(msg) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.entry.WithFields(ctxToFields(ctx)).Info(msg) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.entry.WithFields(ctxToFields(ctx)).Warn(msg) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.entry.WithFields(ctxToFields(ctx)).Error(msg) }
func (l *logger) Crit(msg string, ctx ...interface{})  { l.entry.WithFields(ctxToFields(ctx)).Fatal(msg) }

// Package-level convenience functions operating on Root().

func Trace(msg string, ctx ...interface{}) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { Root().Crit(msg, ctx...) }
