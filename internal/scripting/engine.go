package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine hosts the embedded Lua runtime. Scripts run only on the game loop
// goroutine, so a single LState is enough.
type Engine struct {
	state *lua.LState
	log   *zap.Logger
}

func New(log *zap.Logger) *Engine {
	e := &Engine{
		state: lua.NewState(),
		log:   log,
	}
	e.state.SetGlobal("log_info", e.state.NewFunction(func(L *lua.LState) int {
		log.Info("script: " + L.CheckString(1))
		return 0
	}))
	return e
}

// LoadDir runs every .lua file in dir in name order. A missing directory is
// fine: the server runs without scripts.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		e.log.Info("no scripts directory, skipping", zap.String("dir", dir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read scripts dir %s: %w", dir, err)
	}

	var files []string
	for _, ent := range entries {
		if !ent.IsDir() && strings.HasSuffix(ent.Name(), ".lua") {
			files = append(files, filepath.Join(dir, ent.Name()))
		}
	}
	sort.Strings(files)

	for _, path := range files {
		if err := e.state.DoFile(path); err != nil {
			return fmt.Errorf("load script %s: %w", path, err)
		}
		e.log.Info("script loaded", zap.String("path", path))
	}
	return nil
}

// RunGMCommand offers an unhandled GM command to the scripts' gm_command
// hook. Reports whether a hook existed and claimed the command.
func (e *Engine) RunGMCommand(issuer, command string) (bool, error) {
	fn := e.state.GetGlobal("gm_command")
	if fn == lua.LNil {
		return false, nil
	}
	if err := e.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(issuer), lua.LString(command)); err != nil {
		return false, fmt.Errorf("gm_command hook: %w", err)
	}
	ret := e.state.Get(-1)
	e.state.Pop(1)
	return lua.LVAsBool(ret), nil
}

func (e *Engine) Close() {
	e.state.Close()
}
