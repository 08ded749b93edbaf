package wsm

import (
	"sort"
)

// operation is an entry of the scripting surface.
type operation struct {
	arity int
	call  func(b *Bridge, args []interface{}) (interface{}, error)
}

var surface = map[string]operation{
	"bt_updated": {0, func(b *Bridge, _ []interface{}) (interface{}, error) {
		return b.Updated()
	}},
	"get_bt_update": {0, func(b *Bridge, _ []interface{}) (interface{}, error) {
		s, err := b.Snapshot()
		if err != nil {
			return nil, err
		}
		return s.Interfaces(), nil
	}},
	"get_api_version": {0, func(b *Bridge, _ []interface{}) (interface{}, error) {
		return b.APIVersion(), nil
	}},
	"print_log": {1, func(b *Bridge, args []interface{}) (interface{}, error) {
		text, ok := args[0].(string)
		if !ok {
			return nil, opErr("print_log", invalidArgf("can't convert %T to str", args[0]))
		}
		return nil, b.PrintLog(text)
	}},
	"set_wifi_credentials": {3, func(b *Bridge, args []interface{}) (interface{}, error) {
		const op = "set_wifi_credentials"
		ssid, ok := args[0].(string)
		if !ok {
			return nil, opErr(op, invalidArgf("ssid: can't convert %T to str", args[0]))
		}
		password, ok := args[1].(string)
		if !ok {
			return nil, opErr(op, invalidArgf("password: can't convert %T to str", args[1]))
		}
		slot, err := Coerce(KindInt, args[2])
		if err != nil {
			return nil, opErr(op, err)
		}
		return nil, b.SetWifiCredentials(ssid, password, slot.Int())
	}},
	"get_log": {0, func(b *Bridge, _ []interface{}) (interface{}, error) {
		buf, err := b.ReadLog()
		if err != nil {
			return nil, err
		}
		return buf.Take(), nil
	}},
}

func init() {
	for _, f := range SettableFields {
		field := f
		surface["set_"+field.Name()] = operation{1, func(b *Bridge, args []interface{}) (interface{}, error) {
			return nil, b.SetField(field, args[0])
		}}
	}
}

// Names lists the operations accepted by Invoke.
func Names() []string {
	names := make([]string, 0, len(surface))
	for name := range surface {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke calls an operation by its scripting name with dynamic arguments,
// e.g. Invoke("set_heading", 90). Setters and print_log return nil,
// get_bt_update returns []interface{}, get_log returns []byte.
func (b *Bridge) Invoke(name string, args ...interface{}) (interface{}, error) {
	op, ok := surface[name]
	if !ok {
		return nil, opErr(name, invalidArgf("unknown operation"))
	}
	if len(args) != op.arity {
		return nil, opErr(name, invalidArgf("takes %d positional arguments but %d were given", op.arity, len(args)))
	}
	return op.call(b, args)
}
