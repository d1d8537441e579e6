//go:build pico || pico_w

// This file includes code derived from sources in github.com/soypat/cyw43439/examples/mqtt/main.go,
// which is licensed under the MIT License.
// Copyright (c) 2022 Patricio Whittingslow

package netstack

import (
	"errors"
	"log/slog"
	"net/netip"
	"time"

	"github.com/soypat/cyw43439"
	"github.com/soypat/seqs/stacks"
)

const mtu = 2030 // MTU - ethhdr - iphdr - tcphdr

type SetupConfig struct {
	Hostname string
	SSID     string
	Password string
	Logger   *slog.Logger
	TCPPorts uint16
	UDPPorts uint16
}

// SetupWithDHCP brings the WiFi chip up, joins the network and acquires an
// address over DHCP.
func SetupWithDHCP(cfg SetupConfig) (*stacks.DHCPClient, *stacks.PortStack, *cyw43439.Device, error) {
	logger := cfg.Logger
	dev := cyw43439.NewPicoWDevice()
	wificfg := cyw43439.DefaultWifiConfig()
	wificfg.Logger = logger
	if err := dev.Init(wificfg); err != nil {
		return nil, nil, nil, err
	}
	for {
		err := dev.JoinWPA2(cfg.SSID, cfg.Password)
		if err == nil {
			break
		}
		logger.Error("wifi join failed", slog.String("err", err.Error()))
		time.Sleep(5 * time.Second)
	}
	mac, err := dev.HardwareAddr6()
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("wifi joined", slog.String("mac", net6String(mac)))

	stack := stacks.NewPortStack(stacks.PortStackConfig{
		MAC:             mac,
		MaxOpenPortsUDP: int(cfg.UDPPorts),
		MaxOpenPortsTCP: int(cfg.TCPPorts),
		MTU:             mtu,
		Logger:          logger,
	})
	dev.RecvEthHandle(stack.RecvEth)
	go nicLoop(dev, stack)

	dhcpClient := stacks.NewDHCPClient(stack, 68)
	err = dhcpClient.BeginRequest(stacks.DHCPRequestConfig{
		RequestedAddr: netip.AddrFrom4([4]byte{192, 168, 1, 99}),
		Xid:           uint32(time.Now().Nanosecond()),
		Hostname:      cfg.Hostname,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	for !dhcpClient.Done() {
		time.Sleep(50 * time.Millisecond)
	}
	stack.SetAddr(dhcpClient.Offer())
	logger.Info("dhcp done", slog.String("addr", stack.Addr().String()))
	return dhcpClient, stack, dev, nil
}

func nicLoop(dev *cyw43439.Device, stack *stacks.PortStack) {
	// Maximum number of packets to queue before sending them.
	const (
		queueSize                = 3
		maxRetriesBeforeDropping = 3
	)
	var queue [queueSize][mtu]byte
	var lenBuf [queueSize]int
	var retries [queueSize]int
	markSent := func(i int) {
		queue[i] = [mtu]byte{}
		lenBuf[i] = 0
		retries[i] = 0
	}
	for {
		stallRx := true
		// Poll for incoming packets.
		for i := 0; i < 1; i++ {
			gotPacket, err := dev.PollOne()
			if err != nil {
				println("poll error:", err.Error())
			}
			if !gotPacket {
				break
			}
			stallRx = false
		}

		// Queue packets to be sent.
		for i := range queue {
			if retries[i] != 0 {
				continue // Packet currently queued for retransmission.
			}
			buf := queue[i][:]
			n, err := stack.HandleEth(buf)
			if err != nil {
				println("stack error n(should be 0)=", n, "err=", err.Error())
				lenBuf[i] = 0
				continue
			}
			if n == 0 {
				break
			}
			lenBuf[i] = n
		}
		stallTx := lenBuf == [queueSize]int{}
		if stallTx {
			if stallRx {
				// Avoid busy waiting when both Rx and Tx stall.
				time.Sleep(51 * time.Millisecond)
			}
			continue
		}

		// Send queued packets.
		for i := range queue {
			n := lenBuf[i]
			if n <= 0 {
				continue
			}
			err := dev.SendEth(queue[i][:n])
			if err != nil {
				// Queue packet for retransmission.
				retries[i]++
				if retries[i] > maxRetriesBeforeDropping {
					markSent(i)
					println("dropped outgoing packet:", err.Error())
				}
			} else {
				markSent(i)
			}
		}
	}
}

// ResolveHardwareAddr obtains the hardware address of the given IP, usually
// the router's, to dial outside the local network.
func ResolveHardwareAddr(stack *stacks.PortStack, ip netip.Addr) ([6]byte, error) {
	if !ip.IsValid() {
		return [6]byte{}, errors.New("invalid ip")
	}
	arpc := stack.ARP()
	arpc.Abort()
	if err := arpc.BeginResolve(ip); err != nil {
		return [6]byte{}, err
	}
	time.Sleep(4 * time.Millisecond)
	for !arpc.ResultDone() {
		time.Sleep(200 * time.Millisecond)
	}
	_, hw, err := arpc.ResultAs6()
	return hw, err
}

func net6String(mac [6]byte) string {
	const hex = "0123456789abcdef"
	b := make([]byte, 0, 17)
	for i, v := range mac {
		if i > 0 {
			b = append(b, ':')
		}
		b = append(b, hex[v>>4], hex[v&0xf])
	}
	return string(b)
}
