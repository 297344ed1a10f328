// Генератор тестовых заказов: пишет случайные заказы в Kafka либо
// отправляет их в POST /order, если указан -http.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

type delivery struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Zip     string `json:"zip"`
	City    string `json:"city"`
	Address string `json:"address"`
	Region  string `json:"region"`
	Email   string `json:"email"`
}

type payment struct {
	Transaction  string `json:"transaction"`
	RequestID    string `json:"request_id"`
	Currency     string `json:"currency"`
	Provider     string `json:"provider"`
	Amount       int    `json:"amount"`
	PaymentDT    int64  `json:"payment_dt"`
	Bank         string `json:"bank"`
	DeliveryCost int    `json:"delivery_cost"`
	GoodsTotal   int    `json:"goods_total"`
	CustomFee    int    `json:"custom_fee"`
}

type item struct {
	ChrtID      int64  `json:"chrt_id"`
	TrackNumber string `json:"track_number"`
	Price       int    `json:"price"`
	RID         string `json:"rid"`
	Name        string `json:"name"`
	Sale        int    `json:"sale"`
	Size        string `json:"size"`
	TotalPrice  int    `json:"total_price"`
	NmID        int    `json:"nm_id"`
	Brand       string `json:"brand"`
	Status      int    `json:"status"`
}

type order struct {
	OrderUID        string    `json:"order_uid"`
	TrackNumber     string    `json:"track_number"`
	Entry           string    `json:"entry"`
	Delivery        delivery  `json:"delivery"`
	Payment         payment   `json:"payment"`
	Items           []item    `json:"items"`
	Locale          string    `json:"locale"`
	CustomerID      string    `json:"customer_id"`
	DeliveryService string    `json:"delivery_service"`
	ShardKey        string    `json:"shardkey"`
	SmID            int       `json:"sm_id"`
	DateCreated     time.Time `json:"date_created"`
	OofShard        string    `json:"oof_shard"`
}

func randomString(n int) string {
	letters := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

func randomOrder() order {
	uid := randomString(16)
	return order{
		OrderUID:    uid,
		TrackNumber: "TRACK" + randomString(6),
		Entry:       "WBIL",
		Delivery: delivery{
			Name:    "Test Testov",
			Phone:   fmt.Sprintf("+%010d", rand.Intn(9999999999)),
			Zip:     fmt.Sprintf("%06d", rand.Intn(999999)),
			City:    "City" + randomString(4),
			Address: fmt.Sprintf("Street %d", rand.Intn(100)),
			Region:  "Region" + randomString(3),
			Email:   fmt.Sprintf("user%d@example.com", rand.Intn(1000)),
		},
		Payment: payment{
			Transaction:  uid,
			Currency:     "USD",
			Provider:     "wbpay",
			Amount:       rand.Intn(5000) + 500,
			PaymentDT:    time.Now().Unix(),
			Bank:         "bank" + randomString(4),
			DeliveryCost: rand.Intn(1000),
			GoodsTotal:   rand.Intn(3000),
			CustomFee:    rand.Intn(10),
		},
		Items: []item{
			{
				ChrtID:      int64(rand.Intn(9999999)),
				TrackNumber: "TRACK" + randomString(6),
				Price:       rand.Intn(1000) + 100,
				RID:         randomString(16),
				Name:        "Item " + randomString(5),
				Sale:        rand.Intn(50),
				Size:        fmt.Sprintf("%d", rand.Intn(50)),
				TotalPrice:  rand.Intn(1000),
				NmID:        rand.Intn(999999),
				Brand:       "Brand" + randomString(3),
				Status:      200 + rand.Intn(10),
			},
		},
		Locale:          "en",
		CustomerID:      "customer_" + randomString(5),
		DeliveryService: "meest",
		ShardKey:        fmt.Sprintf("%d", rand.Intn(10)),
		SmID:            rand.Intn(999),
		DateCreated:     time.Now().UTC(),
		OofShard:        fmt.Sprintf("%d", rand.Intn(5)),
	}
}

func main() {
	brokers := flag.String("brokers", "localhost:9092", "kafka brokers")
	topic := flag.String("topic", "orders", "kafka topic")
	httpAddr := flag.String("http", "", "post orders to this base URL instead of kafka")
	interval := flag.Duration("interval", 2*time.Second, "interval between orders")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var send func(data []byte) error
	if *httpAddr != "" {
		send = func(data []byte) error {
			resp, err := http.Post(*httpAddr+"/order", "application/json", bytes.NewReader(data))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 400 {
				return fmt.Errorf("unexpected status: %s", resp.Status)
			}
			return nil
		}
	} else {
		writer := &kafka.Writer{
			Addr:  kafka.TCP(*brokers),
			Topic: *topic,
		}
		defer writer.Close()
		send = func(data []byte) error {
			return writer.WriteMessages(ctx, kafka.Message{Value: data})
		}
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			o := randomOrder()
			data, _ := json.Marshal(o)
			if err := send(data); err != nil {
				log.Println("failed to send order:", err)
				continue
			}
			log.Println("order sent", o.OrderUID)
		case <-ctx.Done():
			return
		}
	}
}
