// wkchat is a terminal chat client for a WuKongIM server. It authenticates,
// prints every message pushed to the session and sends each line typed on
// stdin to one channel.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	easysdk "github.com/WuKongIM/WuKongEasySDK-Go"
)

func main() {
	var (
		serverURL = flag.String("server", "ws://localhost:5200", "WuKongIM WebSocket endpoint")
		uid       = flag.String("uid", "", "user id to authenticate as")
		token     = flag.String("token", "", "authentication token")
		channel   = flag.String("channel", "", "peer uid or group id to chat with")
		group     = flag.Bool("group", false, "treat -channel as a group id")
		debug     = flag.Bool("debug", false, "log protocol frames")
	)
	flag.Parse()
	if *uid == "" || *token == "" || *channel == "" {
		fmt.Fprintln(os.Stderr, "usage: wkchat -server ws://host:5200 -uid alice -token secret -channel bob [-group]")
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cli, err := easysdk.New(*serverURL, *uid, *token,
		easysdk.WithLogger(logger),
		easysdk.WithDeviceFlag(easysdk.DeviceFlagPC),
	)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	cli.OnConnect(func(res *easysdk.ConnectResult) {
		fmt.Printf("* connected, server version %d\n", res.ServerVersion)
	})
	cli.OnDisconnect(func(info *easysdk.DisconnectInfo) {
		fmt.Printf("* disconnected: %s (code %d)\n", info.Reason, info.ReasonCode)
	})
	cli.OnReconnecting(func(ev *easysdk.ReconnectingEvent) {
		fmt.Printf("* reconnecting, attempt %d in %s\n", ev.Attempt, ev.Delay)
	})
	cli.OnError(func(cerr *easysdk.ClientError) {
		logger.Warn("connection trouble", "error", cerr)
	})
	cli.OnMessage(func(msg *easysdk.Message) {
		content, ok := msg.Payload.Str("content")
		if !ok {
			logger.Debug("message without text content", "messageId", msg.MessageID)
			return
		}
		fmt.Printf("%s> %s\n", msg.FromUID, content)
	})

	connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	_, err = cli.Connect(connectCtx)
	cancel()
	if err != nil {
		logger.Error("connect failed", "error", err)
		cli.Close()
		os.Exit(1)
	}

	channelType := easysdk.ChannelTypePerson
	if *group {
		channelType = easysdk.ChannelTypeGroup
	}

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("chatting with %s, type a message and press enter (/quit to exit)\n", *channel)
	for {
		select {
		case <-sigChan:
			fmt.Println("\nbye")
			cli.Close()
			return
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "/quit" {
				cli.Close()
				return
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			sendCtx, cancelSend := context.WithTimeout(context.Background(), 10*time.Second)
			res, err := cli.Send(sendCtx, *channel, channelType, easysdk.Map{
				"type":    easysdk.Num(1),
				"content": easysdk.Str(line),
			})
			cancelSend()
			if err != nil {
				logger.Warn("send failed", "error", err)
				continue
			}
			logger.Debug("delivered", "messageId", res.MessageID, "seq", res.MessageSeq)
		}
	}
}
