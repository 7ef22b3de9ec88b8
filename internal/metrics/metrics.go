package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 检索问答链路的核心指标，按集合维度区分
var (
	DocumentsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assistant",
		Name:      "documents_ingested_total",
		Help:      "写入向量集合的文档总数",
	}, []string{"collection"})

	ChunksIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assistant",
		Name:      "chunks_ingested_total",
		Help:      "写入向量集合的分块总数",
	}, []string{"collection"})

	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assistant",
		Name:      "queries_total",
		Help:      "问答请求总数",
	}, []string{"collection", "status"})

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "assistant",
		Name:      "query_duration_seconds",
		Help:      "问答请求端到端耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"collection"})

	RetrievalHits = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "assistant",
		Name:      "retrieval_hits",
		Help:      "单次检索返回的命中数",
		Buckets:   []float64{0, 1, 2, 3, 5, 10},
	}, []string{"collection"})
)
