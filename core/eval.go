package core

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

var RESP_NIL []byte = []byte("$-1\r\n")

// EvalAndResponse dispatches one decoded command to its handler and
// writes the RESP reply to c (spec section 1's command-dispatch
// collaborator; everything below this function is internal to this
// package, the value layer's only externally exposed surface besides
// OBJECT/MEMORY themselves per spec section 6).
func EvalAndResponse(cmd *RedisCmd, c io.ReadWriter) error {
	var reply interface{}

	switch cmd.Cmd {
	case "PING":
		reply = evalPing(cmd.Args)
	case "SET":
		reply = evalSet(cmd.Args, true)
	case "GET":
		reply = evalGet(cmd.Args)
	case "DEL":
		reply = evalDel(cmd.Args, true)
	case "EXPIRE":
		reply = evalExpire(cmd.Args, true)
	case "TTL":
		reply = evalTTL(cmd.Args)
	case "INCR":
		reply = evalIncr(cmd.Args, true)
	case "APPEND":
		reply = evalAppend(cmd.Args, true)
	case "OBJECT":
		reply = ObjectCommand(cmd.Args)
	case "MEMORY":
		reply = MemoryCommand(cmd.Args)
	default:
		reply = errors.New("ERR unknown command '" + cmd.Cmd + "'")
	}

	_, err := c.Write(replyBytes(reply))
	return err
}

// replyBytes turns a handler's return value into wire bytes. Handlers
// return a plain Go value (string/int64/[]string/[]interface{}/error/
// nil) rather than writing to the connection themselves, so OBJECT
// and MEMORY's subcommand logic stay testable without a fake
// io.ReadWriter (see object_cmd.go, memory_cmd.go).
func replyBytes(reply interface{}) []byte {
	if reply == nil {
		return RESP_NIL
	}
	if s, ok := reply.(simpleOK); ok {
		return []byte("+" + string(s) + "\r\n")
	}
	return Encode(reply, false)
}

// simpleOK marks a string that should encode as a RESP simple string
// (+OK\r\n) rather than a bulk string, the same distinction the
// teacher's evalPing passed via Encode's isSimple argument.
type simpleOK string

func evalPing(args []string) interface{} {
	if len(args) >= 2 {
		return errors.New("ERR wrong number of arguments for 'ping' command")
	}
	if len(args) == 0 {
		return simpleOK("PONG")
	}
	return args[0]
}

func evalSet(args []string, appendToAOF bool) interface{} {
	if len(args) < 2 {
		return errors.New("ERR wrong number of arguments for 'set' command")
	}
	key, value := args[0], args[1]
	var exDurationMs int64 = -1

	for i := 2; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "EX":
			i++
			if i == len(args) {
				return errors.New("ERR syntax error")
			}
			secs, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				return ErrNotInt
			}
			exDurationMs = secs * 1000
		default:
			return errors.New("ERR syntax error")
		}
	}

	v := MakeString([]byte(value))
	v = TryEncode(v)
	Put(key, v, exDurationMs)

	if appendToAOF {
		AppendAOF("SET", args)
	}
	return simpleOK("OK")
}

func internalSet(args []string) { evalSet(args, false) }

func evalGet(args []string) interface{} {
	if len(args) != 1 {
		return errors.New("ERR wrong number of arguments for 'get' command")
	}
	v := Get(args[0])
	if v == nil {
		return nil
	}
	if err := checkKind(v, KindString); err != nil {
		return err
	}
	return stringReplyValue(v)
}

// stringReplyValue renders a String-kind value as the bulk-string
// reply a client expects, decimal-formatting Int encodings on the fly
// (spec section 4.1's getDecodedView intent, applied at the reply
// boundary instead of materializing a new header).
func stringReplyValue(v *Value) string {
	if v.Encoding() == EncodingInt {
		return strconv.FormatInt(v.Payload.(int64), 10)
	}
	return string(stringBytes(v))
}

func evalDel(args []string, appendToAOF bool) interface{} {
	if len(args) < 1 {
		return errors.New("ERR wrong number of arguments for 'del' command")
	}
	var deleted int64
	for _, k := range args {
		if Del(k) {
			deleted++
		}
	}
	if appendToAOF && deleted > 0 {
		AppendAOF("DEL", args)
	}
	return deleted
}

func internalDEL(args []string) { evalDel(args, false) }

func evalExpire(args []string, appendToAOF bool) interface{} {
	if len(args) != 2 {
		return errors.New("ERR wrong number of arguments for 'expire' command")
	}
	secs, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return ErrNotInt
	}
	ok := Expire(args[0], secs*1000)
	if !ok {
		return int64(0)
	}
	if appendToAOF {
		AppendAOF("EXPIRE", args)
	}
	return int64(1)
}

func internalExpire(args []string) { evalExpire(args, false) }

func evalTTL(args []string) interface{} {
	if len(args) != 1 {
		return errors.New("ERR wrong number of arguments for 'ttl' command")
	}
	ms := TTLMillis(args[0])
	if ms < 0 {
		return ms
	}
	return ms / 1000
}

func evalIncr(args []string, appendToAOF bool) interface{} {
	if len(args) != 1 {
		return errors.New("ERR wrong number of arguments for 'incr' command")
	}
	key := args[0]
	v := Get(key)
	var n int64
	if v != nil {
		if err := checkKind(v, KindString); err != nil {
			return err
		}
		parsed, err := AsInt(v)
		if err != nil {
			return err
		}
		n = parsed
	}
	n++
	PutKeepTTL(key, TryEncode(MakeString([]byte(strconv.FormatInt(n, 10)))))
	if appendToAOF {
		AppendAOF("SET", []string{key, strconv.FormatInt(n, 10)})
	}
	return n
}

func internalIncr(args []string) { evalIncr(args, false) }

// evalAppend grows a String value in place, the command surface that
// actually exercises RawString.Grow and the tryEncode slack-trim path
// (spec section 4.1 step 6, scenario S7's raw-after-append case).
// Values that are shared or not already Raw are unshared/materialized
// into an independent Raw buffer first (mirrors the source's
// dbUnshareStringValue before appendCommand mutates in place).
func evalAppend(args []string, appendToAOF bool) interface{} {
	if len(args) != 2 {
		return errors.New("ERR wrong number of arguments for 'append' command")
	}
	key, suffix := args[0], args[1]

	v := Get(key)
	if v == nil {
		PutKeepTTL(key, MakeRaw([]byte(suffix)))
		if appendToAOF {
			AppendAOF("APPEND", args)
		}
		return int64(len(suffix))
	}
	if err := checkKind(v, KindString); err != nil {
		return err
	}

	target := v
	if target.refCount > 1 {
		target = Dup(v)
	}
	if target.Encoding() != EncodingRaw {
		target.Payload = newRawString(stringBytes(target))
		target.setEncoding(EncodingRaw)
	}
	target.Payload.(*RawString).Grow([]byte(suffix))
	if target != v {
		PutKeepTTL(key, target)
	}

	if appendToAOF {
		AppendAOF("APPEND", args)
	}
	return int64(target.Payload.(*RawString).Len())
}

func internalAppend(args []string) { evalAppend(args, false) }
