package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL drives. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	recoveryPending() bool
	Status(ctx context.Context) error
	EditClient(ctx context.Context) error
	EditJob(ctx context.Context) error
	EditSettings(ctx context.Context) error
	AddItem(ctx context.Context) error
	SetQuantity(ctx context.Context, args []string) error
	SetPrice(ctx context.Context, args []string) error
	RemoveItem(ctx context.Context, args []string) error
	Items(ctx context.Context) error
	Next(ctx context.Context) error
	Back(ctx context.Context) error
	Goto(ctx context.Context, args []string) error
	Save(ctx context.Context) error
	Accept(ctx context.Context) error
	Discard(ctx context.Context) error
	Submit(ctx context.Context) error
	Drafts(ctx context.Context) error
}

const helpText = `Available commands:
  status                  show the current step and totals
  client | job | settings edit client details, job details, VAT and display settings
  additem                 add a line item
  qty <id> <n>            change an item's quantity
  price <id> <amount>     change an item's unit price
  rmitem <id>             remove an item
  items                   list items with totals
  next | back | goto <n>  move between steps (goto only goes back)
  save                    save a draft now
  accept | discard        answer the recovered draft prompt
  submit                  submit the quote (last step only)
  drafts                  list stored drafts
  exit | quit             leave (the draft stays saved)`

// editing commands are refused while a recovered draft awaits a decision.
var blockedWhilePending = map[string]bool{
	"client": true, "job": true, "settings": true, "additem": true,
	"qty": true, "price": true, "rmitem": true,
	"next": true, "back": true, "goto": true, "save": true, "submit": true,
}

// runREPL reads commands from reader, one per line, and dispatches them to
// a. The first token is the command, the rest its arguments. Command errors
// are printed and the loop continues. It returns on EOF, on "exit"/"quit",
// or once ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("quote %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if blockedWhilePending[cmd] && a.recoveryPending() {
			printlnFn("A saved draft is waiting: type 'accept' to restore it or 'discard' to start fresh.")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help", "?":
			printlnFn(helpText)
		case "status":
			cmdErr = a.Status(ctx)
		case "client":
			cmdErr = a.EditClient(ctx)
		case "job":
			cmdErr = a.EditJob(ctx)
		case "settings":
			cmdErr = a.EditSettings(ctx)
		case "additem":
			cmdErr = a.AddItem(ctx)
		case "qty":
			cmdErr = a.SetQuantity(ctx, args)
		case "price":
			cmdErr = a.SetPrice(ctx, args)
		case "rmitem":
			cmdErr = a.RemoveItem(ctx, args)
		case "items":
			cmdErr = a.Items(ctx)
		case "next":
			cmdErr = a.Next(ctx)
		case "back":
			cmdErr = a.Back(ctx)
		case "goto":
			cmdErr = a.Goto(ctx, args)
		case "save":
			cmdErr = a.Save(ctx)
		case "accept":
			cmdErr = a.Accept(ctx)
		case "discard":
			cmdErr = a.Discard(ctx)
		case "submit":
			cmdErr = a.Submit(ctx)
		case "drafts":
			cmdErr = a.Drafts(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
