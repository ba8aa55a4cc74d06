package console

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type Command struct {
	Name        string
	Aliases     []string
	ArgFormat   string
	Description string
	// Callback is a function whose parameters are filled from the
	// command line. See CommandGroup for the accepted parameter types.
	Callback interface{}
}

func (cmd *Command) Usage() string {
	return strings.TrimSpace(cmd.Name + " " + cmd.ArgFormat)
}

type param byte

const (
	paramUser param = iota
	paramInt
	paramString
	paramOptionalInt
	paramOptionalBool
)

func (p param) optional() bool {
	return p == paramOptionalInt || p == paramOptionalBool
}

var (
	intType     = reflect.TypeOf(0)
	stringType  = reflect.TypeOf("")
	intPointer  = reflect.TypeOf((*int)(nil))
	boolPointer = reflect.TypeOf((*bool)(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

type handler struct {
	command  *Command
	callback reflect.Value
	params   []param
	// returnsError is set when the callback's only result is an error.
	returnsError bool
}

// CommandGroup dispatches console lines to callbacks. A callback may take
// the calling User, required int and string arguments, and then optional
// *int and *bool arguments, which are nil when omitted. It may return an
// error.
type CommandGroup[User any] struct {
	namespace string
	handlers  map[string]*handler
	order     []*handler
	message   func(User, string)
}

func NewCommandGroup[User any](namespace string, message func(User, string)) *CommandGroup[User] {
	return &CommandGroup[User]{
		namespace: namespace,
		handlers:  make(map[string]*handler),
		message:   message,
	}
}

func (c *CommandGroup[User]) compile(command *Command) (*handler, error) {
	callback := reflect.ValueOf(command.Callback)
	if !callback.IsValid() || callback.Kind() != reflect.Func {
		return nil, fmt.Errorf("callback must be a function")
	}

	signature := callback.Type()
	h := &handler{command: command, callback: callback}
	switch {
	case signature.NumOut() == 1 && signature.Out(0) == errorType:
		h.returnsError = true
	case signature.NumOut() > 0:
		return nil, fmt.Errorf("callback may only return an error")
	}

	userType := reflect.TypeOf((*User)(nil)).Elem()
	optional := false
	for i := 0; i < signature.NumIn(); i++ {
		var p param
		switch in := signature.In(i); in {
		case userType:
			p = paramUser
		case intType:
			p = paramInt
		case stringType:
			p = paramString
		case intPointer:
			p = paramOptionalInt
		case boolPointer:
			p = paramOptionalBool
		default:
			return nil, fmt.Errorf("unsupported parameter type %s", in)
		}

		switch {
		case p.optional():
			optional = true
		case p != paramUser && optional:
			return nil, fmt.Errorf("required parameter %d follows an optional one", i)
		}
		h.params = append(h.params, p)
	}

	return h, nil
}

func (c *CommandGroup[User]) Register(command Command) error {
	if command.Name == "" {
		return fmt.Errorf("command has no name")
	}

	h, err := c.compile(&command)
	if err != nil {
		return fmt.Errorf("%s: %w", command.Name, err)
	}

	names := append([]string{command.Name}, command.Aliases...)
	for _, name := range names {
		if _, taken := c.handlers[name]; taken {
			return fmt.Errorf("%s: name %s is already registered", command.Name, name)
		}
	}
	for _, name := range names {
		c.handlers[name] = h
	}
	c.order = append(c.order, h)
	return nil
}

func (c *CommandGroup[User]) Name() string { return c.namespace }

// Help lists every command with its usage, in registration order.
func (c *CommandGroup[User]) Help() string {
	var help strings.Builder
	for _, h := range c.order {
		help.WriteString(h.command.Usage())
		if len(h.command.Aliases) > 0 {
			fmt.Fprintf(&help, " (alias %s)", strings.Join(h.command.Aliases, ", "))
		}
		if h.command.Description != "" {
			help.WriteString(": " + h.command.Description)
		}
		help.WriteByte('\n')
	}
	return help.String()
}

// resolve finds the command named by args, which may be prefixed with
// the group's namespace.
func (c *CommandGroup[User]) resolve(args []string) (*handler, []string) {
	if len(args) > 1 && args[0] == c.namespace {
		args = args[1:]
	}
	if len(args) == 0 {
		return nil, nil
	}
	return c.handlers[args[0]], args[1:]
}

func parseBool(argument string) (bool, error) {
	switch argument {
	case "yes", "1", "on", "true":
		return true, nil
	case "no", "0", "off", "false":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", argument)
}

func parse(p param, argument string) (reflect.Value, error) {
	switch p {
	case paramInt, paramOptionalInt:
		n, err := strconv.Atoi(argument)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("expected a number, got %q", argument)
		}
		if p == paramOptionalInt {
			return reflect.ValueOf(&n), nil
		}
		return reflect.ValueOf(n), nil
	case paramOptionalBool:
		b, err := parseBool(argument)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(&b), nil
	}
	return reflect.ValueOf(argument), nil
}

func (c *CommandGroup[User]) Handle(user User, args []string) error {
	h, rest := c.resolve(args)
	if h == nil {
		return fmt.Errorf("%s: unknown command", c.namespace)
	}

	values := make([]reflect.Value, len(h.params))
	for i, p := range h.params {
		switch {
		case p == paramUser:
			values[i] = reflect.ValueOf(&user).Elem()
			continue
		case len(rest) == 0 && p.optional():
			values[i] = reflect.Zero(h.callback.Type().In(i))
			continue
		case len(rest) == 0:
			return fmt.Errorf("usage: %s", h.command.Usage())
		}

		value, err := parse(p, rest[0])
		if err != nil {
			return fmt.Errorf("%s: %w", h.command.Name, err)
		}
		values[i] = value
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return fmt.Errorf("usage: %s", h.command.Usage())
	}

	results := h.callback.Call(values)
	if h.returnsError {
		if err, _ := results[0].Interface().(error); err != nil {
			return err
		}
	}
	return nil
}

// Message sends text to user through the group's sink.
func (c *CommandGroup[User]) Message(user User, message string) {
	if c.message != nil {
		c.message(user, message)
	}
}
