package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeSearch Type = "search"
	TypeShow   Type = "show"
	TypeList   Type = "list"
	TypeUnlist Type = "unlist"
	TypeClear  Type = "clear"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Subjects accepted by show, matching the sidebar categories.
var Subjects = []string{"all", "today", "important", "pending", "finished", "overdue"}

type AddArgs struct {
	Title string
}

// SearchArgs with an empty Text clears the search.
type SearchArgs struct {
	Text string
}

type ShowArgs struct {
	Subject string
}

type ListArgs struct {
	Name string
	Icon string
}

type UnlistArgs struct {
	Name string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Search *SearchArgs
	Show   *ShowArgs
	List   *ListArgs
	Unlist *UnlistArgs
}

// Parse reads one palette line. The leading slash is optional.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Text: strings.Join(args, " ")}}, nil
	case TypeShow:
		return parseShow(input, args)
	case TypeList:
		return parseList(input, args)
	case TypeUnlist:
		return parseUnlist(input, args)
	case TypeClear:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "clear takes no arguments"}
		}
		return Command{Type: TypeClear, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires one of: " + strings.Join(Subjects, ", ")}
	}
	subject := strings.ToLower(args[0])
	if subject == "completed" || subject == "done" {
		subject = "finished"
	}
	for _, s := range Subjects {
		if s == subject {
			return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
		}
	}
	return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown subject: %s", args[0])}
}

// parseList reads "list <name...> [icon:<path>]".
func parseList(raw string, args []string) (Command, error) {
	nameParts := make([]string, 0, len(args))
	icon := ""
	for _, arg := range args {
		if strings.HasPrefix(strings.ToLower(arg), "icon:") {
			icon = strings.TrimSpace(arg[len("icon:"):])
			continue
		}
		nameParts = append(nameParts, arg)
	}
	name := strings.Join(nameParts, " ")
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "list requires a name"}
	}
	return Command{Type: TypeList, Raw: raw, List: &ListArgs{Name: name, Icon: icon}}, nil
}

func parseUnlist(raw string, args []string) (Command, error) {
	name := strings.Join(args, " ")
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "unlist requires a name"}
	}
	return Command{Type: TypeUnlist, Raw: raw, Unlist: &UnlistArgs{Name: name}}, nil
}
