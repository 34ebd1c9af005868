package luadata

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	lua "github.com/yuin/gopher-lua"
)

// CompanionLoader supplies the source text of an optional companion
// module (shared constants referenced by expressions inside call sites).
// It reports false when no companion exists.
type CompanionLoader func() (string, bool)

// companionCandidates are the relative locations probed for a companion
// module, nearest directory first. The probe set is deliberately small
// and fixed.
var companionCandidates = []string{
	"data_util.lua",
	filepath.Join("..", "data_util.lua"),
	filepath.Join("..", "..", "data_util.lua"),
}

// DirCompanionLoader returns a loader probing the fixed candidate
// locations relative to dir, stopping at the first file found.
func DirCompanionLoader(dir string) CompanionLoader {
	return func() (string, bool) {
		for _, rel := range companionCandidates {
			data, err := os.ReadFile(filepath.Join(dir, rel))
			if err == nil {
				return string(data), true
			}
		}

		return "", false
	}
}

// maxTableDepth bounds conversion of interpreter results so cyclic Lua
// tables cannot recurse forever.
const maxTableDepth = 32

// luaEvaluator is the interpreter-backed strategy. It owns an isolated
// Lua state created per file and discarded after the file completes.
type luaEvaluator struct {
	state *lua.LState
}

// newLuaEvaluator constructs an isolated interpreter environment. The
// state is pre-seeded with a no-op data.extend registration function and
// the conventional data_util.mod_prefix constant so evaluated snippets
// referencing these ambient names do not fail. If a companion loader is
// given and finds a module, its text is executed in the same state,
// making any constants it defines available to expressions.
func newLuaEvaluator(load CompanionLoader) *luaEvaluator {
	state := lua.NewState()

	data := state.NewTable()
	state.SetField(data, "extend",
		state.NewFunction(func(*lua.LState) int { return 0 }))
	state.SetGlobal("data", data)

	util := state.NewTable()
	state.SetField(util, "mod_prefix", lua.LString(defaultModPrefix))
	state.SetGlobal("data_util", util)

	if load != nil {
		if src, ok := load(); ok {
			// A companion that fails to execute only reduces resolution
			// completeness; it never fails the file.
			_ = state.DoString(src)
		}
	}

	return &luaEvaluator{state: state}
}

// Close releases the interpreter state.
func (e *luaEvaluator) Close() {
	e.state.Close()
}

// Evaluate implements Evaluator by executing "return <expr>" against the
// live environment. Interpreter errors are misses, not failures.
func (e *luaEvaluator) Evaluate(expr string) (Value, bool) {
	top := e.state.GetTop()

	if err := e.state.DoString("return " + expr); err != nil {
		e.state.SetTop(top)

		return Value{}, false
	}

	result := e.state.Get(-1)
	e.state.SetTop(top)

	return fromLua(result, 0)
}

// fromLua converts an interpreter result into the Value model. Nil,
// functions, and other non-data results count as unresolved.
func fromLua(lv lua.LValue, depth int) (Value, bool) {
	if depth > maxTableDepth {
		return Value{}, false
	}

	switch v := lv.(type) {
	case lua.LBool:
		return Bool(bool(v)), true

	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && !math.IsInf(f, 0) &&
			math.Abs(f) < 1<<53 {
			return Int(int64(f)), true
		}

		return Float(f), true

	case lua.LString:
		return String(string(v)), true

	case *lua.LTable:
		return tableFromLua(v, depth)

	default:
		return Value{}, false
	}
}

// tableFromLua applies the array-vs-map heuristic: sequential integer
// keys from 1 make an array, anything else a map. Lua tables carry no
// insertion order, so map keys are sorted for deterministic output.
func tableFromLua(tbl *lua.LTable, depth int) (Value, bool) {
	seqLen := tbl.Len()
	total := 0

	tbl.ForEach(func(lua.LValue, lua.LValue) { total++ })

	if seqLen > 0 && seqLen == total {
		items := make([]Value, 0, seqLen)

		for i := 1; i <= seqLen; i++ {
			el := tbl.RawGetInt(i)

			v, ok := fromLua(el, depth+1)
			if !ok {
				v = Opaque(el.String())
			}

			items = append(items, v)
		}

		return Array(items...), true
	}

	pairs := make(map[string]Value, total)
	keys := make([]string, 0, total)

	tbl.ForEach(func(k, v lua.LValue) {
		name := luaKeyString(k)

		val, ok := fromLua(v, depth+1)
		if !ok {
			val = Opaque(v.String())
		}

		if _, seen := pairs[name]; !seen {
			keys = append(keys, name)
		}

		pairs[name] = val
	})

	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: pairs[k]})
	}

	return Table(entries...), true
}

func luaKeyString(k lua.LValue) string {
	switch v := k.(type) {
	case lua.LString:
		return string(v)

	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) {
			return strconv.FormatInt(int64(f), 10)
		}

		return strconv.FormatFloat(f, 'g', -1, 64)

	default:
		return k.String()
	}
}
