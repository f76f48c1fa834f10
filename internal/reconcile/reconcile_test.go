package reconcile_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	k8sfake "k8s.io/client-go/kubernetes/fake"

	"rtcritical/rtresource-controller/internal/queue"
	"rtcritical/rtresource-controller/internal/reconcile"
	rtv1 "rtcritical/rtresource-controller/pkg/apis/rtgroup/v1"
	rtfake "rtcritical/rtresource-controller/pkg/client/fake"
)

func newRTResource(name string, replicas int32, criticality uint32) *rtv1.RTResource {
	return &rtv1.RTResource{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "ns",
			UID:       types.UID(name + "-uid"),
			Generation: 1,
		},
		Spec: rtv1.RTResourceSpec{
			Namespace:   "ns",
			Replicas:    replicas,
			Criticality: criticality,
			Selector:    &rtv1.Selector{MatchLabels: map[string]string{"app": name}},
			Template: rtv1.Template{
				Metadata: &metav1.ObjectMeta{Labels: map[string]string{"tier": "rt"}},
				Spec: &corev1.PodSpec{
					Containers: []corev1.Container{{Name: "c", Image: "img"}},
				},
			},
		},
	}
}

var _ = Describe("Action.Reconcile", func() {
	var (
		rtClient  *rtfake.Clientset
		podClient *k8sfake.Clientset
		action    *reconcile.Action
		now       time.Time
	)

	BeforeEach(func() {
		now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		podClient = k8sfake.NewSimpleClientset()
		action = &reconcile.Action{
			Pods:      podClient,
			Scheduler: reconcile.RandomScheduler,
			Now:       func() time.Time { now = now.Add(time.Millisecond); return now },
		}
	})

	// S1: create.
	It("creates the desired replica count and marks status Progressing/Ready", func() {
		rt := newRTResource("svc", 3, 2)
		rtClient = rtfake.NewSimpleClientset(rt)
		action.RTResources = rtClient

		err := action.Reconcile(context.Background(), queue.Message{Name: "svc", UID: string(rt.UID), Namespace: "ns"})
		Expect(err).NotTo(HaveOccurred())

		pods, err := podClient.CoreV1().Pods("ns").List(context.Background(), metav1.ListOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(pods.Items).To(HaveLen(3))
		for _, pod := range pods.Items {
			Expect(pod.Labels).To(HaveKeyWithValue("rtresource_id", string(rt.UID)))
			Expect(pod.Labels).To(HaveKeyWithValue("rtresource_name", "svc"))
			Expect(pod.Labels).To(HaveKeyWithValue("criticality", "2"))
			Expect(pod.Labels).To(HaveKeyWithValue("app", "svc"))
			Expect(pod.Labels).To(HaveKeyWithValue("tier", "rt"))
		}

		updated, err := rtClient.RTResources("ns").Get(context.Background(), "svc", metav1.GetOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Status.DesiredReplicas).To(Equal(int32(3)))
		progressing := updated.Status.GetCondition(rtv1.ConditionProgressing)
		Expect(progressing).NotTo(BeNil())
		Expect(progressing.Status).To(Equal(rtv1.ConditionTrue))
		ready := updated.Status.GetCondition(rtv1.ConditionReady)
		Expect(ready).NotTo(BeNil())
		Expect(ready.Status).To(Equal(rtv1.ConditionFalse))
	})

	// S2: scale up.
	It("creates additional pods when replicas increases", func() {
		rt := newRTResource("svc", 3, 2)
		rtClient = rtfake.NewSimpleClientset(rt)
		action.RTResources = rtClient
		msg := queue.Message{Name: "svc", UID: string(rt.UID), Namespace: "ns"}

		Expect(action.Reconcile(context.Background(), msg)).To(Succeed())

		updated, _ := rtClient.RTResources("ns").Get(context.Background(), "svc", metav1.GetOptions{})
		updated.Spec.Replicas = 5
		_, err := rtClient.RTResources("ns").Create(context.Background(), updated, metav1.CreateOptions{})
		Expect(err).NotTo(HaveOccurred())

		Expect(action.Reconcile(context.Background(), msg)).To(Succeed())

		pods, _ := podClient.CoreV1().Pods("ns").List(context.Background(), metav1.ListOptions{})
		Expect(pods.Items).To(HaveLen(5))
	})

	// S3: scale down.
	It("deletes surplus pods when replicas decreases", func() {
		rt := newRTResource("svc", 5, 2)
		rtClient = rtfake.NewSimpleClientset(rt)
		action.RTResources = rtClient
		msg := queue.Message{Name: "svc", UID: string(rt.UID), Namespace: "ns"}
		Expect(action.Reconcile(context.Background(), msg)).To(Succeed())

		updated, _ := rtClient.RTResources("ns").Get(context.Background(), "svc", metav1.GetOptions{})
		updated.Spec.Replicas = 1
		_, err := rtClient.RTResources("ns").Create(context.Background(), updated, metav1.CreateOptions{})
		Expect(err).NotTo(HaveOccurred())

		Expect(action.Reconcile(context.Background(), msg)).To(Succeed())

		pods, _ := podClient.CoreV1().Pods("ns").List(context.Background(), metav1.ListOptions{})
		Expect(pods.Items).To(HaveLen(1))
	})

	// S6 / P6: delete.
	It("garbage collects every managed pod once the RTResource is gone", func() {
		rt := newRTResource("svc", 3, 2)
		rtClient = rtfake.NewSimpleClientset() // not registered: simulates a 404
		action.RTResources = rtClient

		for i := 0; i < 3; i++ {
			pod := &corev1.Pod{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "svc-pod",
					Namespace: "ns",
					Labels:    map[string]string{"rtresource_id": string(rt.UID)},
				},
			}
			pod.Name = pod.Name + string(rune('0'+i))
			_, err := podClient.CoreV1().Pods("ns").Create(context.Background(), pod, metav1.CreateOptions{})
			Expect(err).NotTo(HaveOccurred())
		}

		err := action.Reconcile(context.Background(), queue.Message{Name: "svc", UID: string(rt.UID), Namespace: "ns"})
		Expect(err).NotTo(HaveOccurred())

		pods, _ := podClient.CoreV1().Pods("ns").List(context.Background(), metav1.ListOptions{})
		Expect(pods.Items).To(BeEmpty())
	})

	// P5: idempotence.
	It("leaves cluster state unchanged when invoked twice with no intervening change", func() {
		rt := newRTResource("svc", 2, 1)
		rtClient = rtfake.NewSimpleClientset(rt)
		action.RTResources = rtClient
		msg := queue.Message{Name: "svc", UID: string(rt.UID), Namespace: "ns"}

		Expect(action.Reconcile(context.Background(), msg)).To(Succeed())
		first, _ := podClient.CoreV1().Pods("ns").List(context.Background(), metav1.ListOptions{})
		Expect(first.Items).To(HaveLen(2))

		Expect(action.Reconcile(context.Background(), msg)).To(Succeed())
		second, _ := podClient.CoreV1().Pods("ns").List(context.Background(), metav1.ListOptions{})
		Expect(second.Items).To(HaveLen(2))
	})
})
