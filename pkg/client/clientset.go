/*
Copyright 2017 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package client is a hand-written typed client for the RTResource kind,
// following the shape k8s.io/client-go code-generation produces for a
// single-kind API group (the convention k8s.io/sample-controller
// demonstrates) without vendoring the generator itself.
package client

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/rest"

	rtv1 "rtcritical/rtresource-controller/pkg/apis/rtgroup/v1"
)

// Interface is the entry point to the RTResource typed client.
type Interface interface {
	RTResources(namespace string) RTResourceInterface
}

// RTResourceInterface mirrors the list/get/create/delete/watch/replace-status
// surface spec.md §1 treats as a pre-built collaborator.
type RTResourceInterface interface {
	Get(ctx context.Context, name string, opts metav1.GetOptions) (*rtv1.RTResource, error)
	List(ctx context.Context, opts metav1.ListOptions) (*rtv1.RTResourceList, error)
	Create(ctx context.Context, obj *rtv1.RTResource, opts metav1.CreateOptions) (*rtv1.RTResource, error)
	Delete(ctx context.Context, name string, opts metav1.DeleteOptions) error
	UpdateStatus(ctx context.Context, obj *rtv1.RTResource, opts metav1.UpdateOptions) (*rtv1.RTResource, error)
	Watch(ctx context.Context, opts metav1.ListOptions) (watch.Interface, error)
}

// Clientset is the concrete REST-backed Interface implementation.
type Clientset struct {
	restClient rest.Interface
}

var _ Interface = &Clientset{}

// NewForConfig builds a Clientset from a rest.Config, the same entry point
// shape as a generated clientset's NewForConfig.
func NewForConfig(c *rest.Config) (*Clientset, error) {
	config := *c
	config.ContentConfig.GroupVersion = &rtv1.SchemeGroupVersion
	config.APIPath = "/apis"
	config.NegotiatedSerializer = serializer.NewCodecFactory(scheme()).WithoutConversion()

	restClient, err := rest.RESTClientFor(&config)
	if err != nil {
		return nil, err
	}
	return &Clientset{restClient: restClient}, nil
}

func scheme() *runtime.Scheme {
	s := runtime.NewScheme()
	_ = rtv1.AddToScheme(s)
	return s
}

// RTResources returns the namespaced RTResource sub-client.
func (c *Clientset) RTResources(namespace string) RTResourceInterface {
	return &rtResources{client: c.restClient, ns: namespace}
}

type rtResources struct {
	client rest.Interface
	ns     string
}

func (c *rtResources) Get(ctx context.Context, name string, opts metav1.GetOptions) (*rtv1.RTResource, error) {
	result := &rtv1.RTResource{}
	err := c.client.Get().
		Namespace(c.ns).
		Resource("rtresources").
		Name(name).
		VersionedParams(&opts, metav1.ParameterCodec).
		Do(ctx).
		Into(result)
	return result, err
}

func (c *rtResources) List(ctx context.Context, opts metav1.ListOptions) (*rtv1.RTResourceList, error) {
	result := &rtv1.RTResourceList{}
	err := c.client.Get().
		Namespace(c.ns).
		Resource("rtresources").
		VersionedParams(&opts, metav1.ParameterCodec).
		Do(ctx).
		Into(result)
	return result, err
}

func (c *rtResources) Create(ctx context.Context, obj *rtv1.RTResource, opts metav1.CreateOptions) (*rtv1.RTResource, error) {
	result := &rtv1.RTResource{}
	err := c.client.Post().
		Namespace(c.ns).
		Resource("rtresources").
		VersionedParams(&opts, metav1.ParameterCodec).
		Body(obj).
		Do(ctx).
		Into(result)
	return result, err
}

func (c *rtResources) Delete(ctx context.Context, name string, opts metav1.DeleteOptions) error {
	return c.client.Delete().
		Namespace(c.ns).
		Resource("rtresources").
		Name(name).
		Body(&opts).
		Do(ctx).
		Error()
}

func (c *rtResources) UpdateStatus(ctx context.Context, obj *rtv1.RTResource, opts metav1.UpdateOptions) (*rtv1.RTResource, error) {
	result := &rtv1.RTResource{}
	err := c.client.Put().
		Namespace(c.ns).
		Resource("rtresources").
		Name(obj.Name).
		SubResource("status").
		VersionedParams(&opts, metav1.ParameterCodec).
		Body(obj).
		Do(ctx).
		Into(result)
	return result, err
}

func (c *rtResources) Watch(ctx context.Context, opts metav1.ListOptions) (watch.Interface, error) {
	opts.Watch = true
	return c.client.Get().
		Namespace(c.ns).
		Resource("rtresources").
		VersionedParams(&opts, metav1.ParameterCodec).
		Watch(ctx)
}
